package gringotts

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/absfs/absfs"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// TmpFile is an encrypted scratch file. Every Write appends one encoded
// frame under a key that exists only in memory, so the file is useless
// once the handle is closed. A TmpFile is not safe for concurrent use.
type TmpFile struct {
	ctx     *Context
	key     *Key
	name    string
	f       absfs.File
	size    int64 // plaintext bytes written so far
	written bool
	closed  bool
}

// NewTmpFile creates an encrypted temporary file in the Filer's temporary
// directory. The handle keeps a snapshot of the context, so later changes
// to c do not affect it.
func (c *Context) NewTmpFile() (*TmpFile, error) {
	key, err := NewRandomKey()
	if err != nil {
		return nil, err
	}

	dir := c.fs.TempDir()
	if err := c.fs.MkdirAll(dir, 0700); err != nil {
		key.Destroy()
		return nil, tmpNotWritable(dir, err)
	}
	name := filepath.Join(dir, "grg-"+uuid.NewString())
	f, err := c.fs.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		key.Destroy()
		return nil, tmpNotWritable(name, err)
	}

	c.log().WithField("path", name).Debug("created temporary file")
	return &TmpFile{
		ctx:  c.Clone(),
		key:  key,
		name: name,
		f:    f,
	}, nil
}

func tmpNotWritable(name string, err error) error {
	return &IOError{
		Operation: "create",
		Path:      name,
		Message:   err.Error(),
		Err:       fmt.Errorf("%w: %w", ErrTmpNotWritable, err),
	}
}

// Name returns the path of the underlying file
func (t *TmpFile) Name() string {
	return t.name
}

// Write encodes p and appends it to the file. It implements io.Writer.
// A chunk that would take the total past the context's MaxSize is
// rejected before anything is written.
func (t *TmpFile) Write(p []byte) (int, error) {
	if t.closed {
		return 0, resourceErr("tmpfile", ErrTmpFileClosed)
	}
	if t.size+int64(len(p)) > t.ctx.maxSize {
		return 0, &ResourceError{
			Resource: "memory",
			Message:  fmt.Sprintf("temporary file would hold %s, budget is %s", sizeField(int(t.size)+len(p)), sizeField(int(t.ctx.maxSize))),
			Err:      ErrDataTooLarge,
		}
	}
	frame, err := t.ctx.encode(t.key, p)
	if err != nil {
		return 0, err
	}

	record := make([]byte, lengthPrefixSize+len(frame))
	binary.BigEndian.PutUint32(record, uint32(len(frame)))
	copy(record[lengthPrefixSize:], frame)

	if _, err := t.f.Seek(0, io.SeekEnd); err != nil {
		return 0, NewIOError("seek", t.name, err)
	}
	if _, err := t.f.Write(record); err != nil {
		return 0, NewIOError("write", t.name, err)
	}
	if err := t.f.Sync(); err != nil {
		return 0, NewIOError("sync", t.name, err)
	}
	t.size += int64(len(p))
	t.written = true

	t.ctx.log().WithFields(logrus.Fields{
		"path":  t.name,
		"chunk": sizeField(len(p)),
	}).Debug("appended to temporary file")
	return len(p), nil
}

// Read decodes every chunk written so far and returns their concatenation
func (t *TmpFile) Read() ([]byte, error) {
	if t.closed {
		return nil, resourceErr("tmpfile", ErrTmpFileClosed)
	}
	if !t.written {
		return nil, resourceErr("tmpfile", ErrTmpNotYetWritten)
	}

	if _, err := t.f.Seek(0, io.SeekStart); err != nil {
		return nil, NewIOError("seek", t.name, err)
	}
	data, err := io.ReadAll(t.f)
	if err != nil {
		return nil, NewIOError("read", t.name, err)
	}

	var chunks [][]byte
	var total int64
	fail := func(err error) ([]byte, error) {
		wipe(t.ctx.security, chunks...)
		return nil, err
	}
	for off := 0; off < len(data); {
		if len(data)-off < lengthPrefixSize {
			return fail(formatErr(off, ErrTruncatedFrame, "truncated record length"))
		}
		n := int(binary.BigEndian.Uint32(data[off:]))
		off += lengthPrefixSize
		if n > len(data)-off {
			return fail(formatErr(off, ErrTruncatedFrame, "truncated record"))
		}

		chunk, err := t.ctx.decode(t.key, data[off:off+n])
		if err != nil {
			return fail(err)
		}
		chunks = append(chunks, chunk)
		total += int64(len(chunk))
		if total > t.ctx.maxSize {
			return fail(resourceErr("memory", ErrDataTooLarge))
		}
		off += n
	}

	out := make([]byte, 0, total)
	for _, chunk := range chunks {
		out = append(out, chunk...)
	}
	wipe(t.ctx.security, chunks...)
	return out, nil
}

// Close destroys the ephemeral key and removes the file. Further calls on
// the handle, including Close, return ErrTmpFileClosed.
func (t *TmpFile) Close() error {
	if t.closed {
		return resourceErr("tmpfile", ErrTmpFileClosed)
	}
	t.closed = true
	t.key.Destroy()

	var err error
	if cerr := t.f.Close(); cerr != nil {
		err = multierr.Append(err, NewIOError("close", t.name, cerr))
	}
	if rerr := t.ctx.fs.Remove(t.name); rerr != nil {
		err = multierr.Append(err, NewIOError("remove", t.name, rerr))
	}
	t.ctx.log().WithField("path", t.name).Debug("removed temporary file")
	return err
}
