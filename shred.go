package gringotts

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// Shred overwrites the file at path with random data passes times (at
// least once), syncing after every pass, and then removes it. Files with
// more than one hard link are refused, since the other names would keep
// the data reachable.
func Shred(path string, passes int) error {
	if err := ValidateFilePath(path); err != nil {
		return err
	}
	if passes < 1 {
		passes = 1
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return shredErr("open", path, ErrCannotOpen, err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return shredErr("stat", path, ErrCannotOpen, err)
	}
	if links(fi) > 1 {
		f.Close()
		return shredErr("shred", path, ErrAlreadyLinked, nil)
	}

	if err := overwrite(f, fi.Size(), passes); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return NewIOError("close", path, err)
	}
	if err := os.Remove(path); err != nil {
		return NewIOError("remove", path, err)
	}

	defaultLogger.WithFields(logrus.Fields{
		"path":   path,
		"size":   sizeField(int(fi.Size())),
		"passes": passes,
	}).Debug("shredded file")
	return nil
}

func shredErr(op, path string, sentinel, cause error) error {
	err, msg := sentinel, sentinel.Error()
	if cause != nil {
		err = fmt.Errorf("%w: %w", sentinel, cause)
		msg = cause.Error()
	}
	return &IOError{Operation: op, Path: path, Message: msg, Err: err}
}
