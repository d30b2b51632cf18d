//go:build unix

package gringotts

import (
	"crypto/rand"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

func links(fi os.FileInfo) uint64 {
	if st, ok := fi.Sys().(*syscall.Stat_t); ok {
		return uint64(st.Nlink)
	}
	return 1
}

// overwrite fills the file through a shared mapping
func overwrite(f *os.File, size int64, passes int) error {
	if size == 0 {
		return nil
	}
	mem, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return shredErr("mmap", f.Name(), ErrCannotMap, err)
	}
	defer unix.Munmap(mem)

	for i := 0; i < passes; i++ {
		if _, err := rand.Read(mem); err != nil {
			return shredErr("shred", f.Name(), ErrCannotMap, err)
		}
		if err := unix.Msync(mem, unix.MS_SYNC); err != nil {
			return NewIOError("sync", f.Name(), err)
		}
	}
	return nil
}
