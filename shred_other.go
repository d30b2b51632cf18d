//go:build !unix

package gringotts

import (
	"crypto/rand"
	"io"
	"os"
)

func links(os.FileInfo) uint64 {
	return 1
}

// overwrite fills the file with positional writes where mmap is unavailable
func overwrite(f *os.File, size int64, passes int) error {
	buf := make([]byte, 64*1024)
	for i := 0; i < passes; i++ {
		for off := int64(0); off < size; off += int64(len(buf)) {
			chunk := buf
			if rem := size - off; rem < int64(len(chunk)) {
				chunk = chunk[:rem]
			}
			if _, err := io.ReadFull(rand.Reader, chunk); err != nil {
				return shredErr("shred", f.Name(), ErrCannotMap, err)
			}
			if _, err := f.WriteAt(chunk, off); err != nil {
				return NewIOError("write", f.Name(), err)
			}
		}
		if err := f.Sync(); err != nil {
			return NewIOError("sync", f.Name(), err)
		}
	}
	return nil
}
