package gringotts

import (
	"errors"
	"io"
	"os"

	"github.com/absfs/absfs"
	"github.com/sirupsen/logrus"
)

// Filer is the part of a filesystem the path adapters and temporary files
// need. Both the operating system and github.com/absfs/memfs satisfy it.
type Filer interface {
	OpenFile(name string, flag int, perm os.FileMode) (absfs.File, error)
	Remove(name string) error
	Stat(name string) (os.FileInfo, error)
	MkdirAll(name string, perm os.FileMode) error
	TempDir() string
}

type osFiler struct{}

// OSFiler returns a Filer backed by the operating system
func OSFiler() Filer {
	return osFiler{}
}

func (osFiler) OpenFile(name string, flag int, perm os.FileMode) (absfs.File, error) {
	return os.OpenFile(name, flag, perm)
}

func (osFiler) Remove(name string) error {
	return os.Remove(name)
}

func (osFiler) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (osFiler) MkdirAll(name string, perm os.FileMode) error {
	return os.MkdirAll(name, perm)
}

func (osFiler) TempDir() string {
	return os.TempDir()
}

// EncryptFile encodes data and writes the frame to path, creating or
// truncating it with mode 0600. A partially written file is removed.
func (c *Context) EncryptFile(key *Key, path string, data []byte) (err error) {
	if err := ValidateFilePath(path); err != nil {
		return err
	}
	frame, err := c.encode(key, data)
	if err != nil {
		return err
	}

	f, err := c.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return NewIOError("create", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = NewIOError("close", path, cerr)
		}
		if err != nil {
			_ = c.fs.Remove(path)
		}
	}()

	if _, err := f.Write(frame); err != nil {
		return NewIOError("write", path, err)
	}
	if err := f.Sync(); err != nil {
		return NewIOError("sync", path, err)
	}

	c.log().WithFields(logrus.Fields{"path": path, "size": sizeField(len(frame))}).Debug("wrote encrypted file")
	return nil
}

// DecryptFile reads and decodes the frame stored at path
func (c *Context) DecryptFile(key *Key, path string) ([]byte, error) {
	frame, err := c.readPath(path)
	if err != nil {
		return nil, err
	}
	return c.decode(key, frame)
}

// ValidateFile checks the frame header stored at path without decrypting
func (c *Context) ValidateFile(path string) error {
	frame, err := c.readPath(path)
	if err != nil {
		return err
	}
	_, err = c.validateFrame(frame)
	return err
}

// UpdateFromFile sets the context's algorithms to those of the frame at path
func (c *Context) UpdateFromFile(path string) error {
	frame, err := c.readPath(path)
	if err != nil {
		return err
	}
	return c.updateFrom(frame)
}

func (c *Context) readPath(path string) ([]byte, error) {
	if err := ValidateFilePath(path); err != nil {
		return nil, err
	}
	f, err := c.fs.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, NewIOError("open", path, err)
	}
	defer f.Close()

	data, err := c.readAll(f)
	if err != nil {
		return nil, NewIOError("read", path, err)
	}
	c.log().WithFields(logrus.Fields{"path": path, "size": sizeField(len(data))}).Debug("read encrypted file")
	return data, nil
}

// readAll reads at most the largest frame the context could accept
func (c *Context) readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, c.maxFrameSize()+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > c.maxFrameSize() {
		return nil, errTooLarge
	}
	return data, nil
}

var errTooLarge = errors.New("file larger than the largest acceptable frame")

// maxFrameSize bounds a frame holding maxSize bytes of incompressible data
func (c *Context) maxFrameSize() int64 {
	// zlib and zstd both stay well within 1/64 expansion plus a fixed margin
	return int64(MaxHeaderSize) + 2 + 24 + 64 + lengthPrefixSize + c.maxSize + c.maxSize/64 + 1024
}

// EncryptTo encodes data and writes the frame to f at its current offset,
// then syncs. f is not closed.
func (c *Context) EncryptTo(key *Key, f absfs.File, data []byte) error {
	if f == nil {
		return NewValidationError("file", nil, "file cannot be nil")
	}
	frame, err := c.encode(key, data)
	if err != nil {
		return err
	}
	if _, err := f.Write(frame); err != nil {
		return NewIOError("write", f.Name(), err)
	}
	if err := f.Sync(); err != nil {
		return NewIOError("sync", f.Name(), err)
	}
	return nil
}

// DecryptFrom decodes the frame held in f, reading from offset 0. f is not
// closed.
func (c *Context) DecryptFrom(key *Key, f absfs.File) ([]byte, error) {
	frame, err := c.readDescriptor(f)
	if err != nil {
		return nil, err
	}
	return c.decode(key, frame)
}

// ValidateFrom checks the frame header held in f without decrypting
func (c *Context) ValidateFrom(f absfs.File) error {
	frame, err := c.readDescriptor(f)
	if err != nil {
		return err
	}
	_, err = c.validateFrame(frame)
	return err
}

// UpdateFromDescriptor sets the context's algorithms to those of the frame
// held in f
func (c *Context) UpdateFromDescriptor(f absfs.File) error {
	frame, err := c.readDescriptor(f)
	if err != nil {
		return err
	}
	return c.updateFrom(frame)
}

func (c *Context) readDescriptor(f absfs.File) ([]byte, error) {
	if f == nil {
		return nil, NewValidationError("file", nil, "file cannot be nil")
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, NewIOError("seek", f.Name(), err)
	}
	data, err := c.readAll(f)
	if err != nil {
		return nil, NewIOError("read", f.Name(), err)
	}
	return data, nil
}
