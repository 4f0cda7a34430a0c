//go:build unix

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

func openMapping(f *os.File, size int64) (*Mapping, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}

	return &Mapping{
		data:  data,
		unmap: unix.Munmap,
	}, nil
}
