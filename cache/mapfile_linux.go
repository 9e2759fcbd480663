//go:build linux

package cache

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// mappedFile is an open mmap of one file's contents, unmapped by close.
type mappedFile struct {
	data []byte
}

func mapFile(path string) (mappedFile, error) {
	fd, err := unix.Open(path, unix.O_RDONLY, 0)
	if err != nil {
		return mappedFile{}, err
	}
	defer unix.Close(fd)

	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return mappedFile{}, err
	}
	if st.Size == 0 {
		// mmap of a zero-length file fails; an empty cached entry is
		// still a valid, non-nil result.
		return mappedFile{data: []byte{}}, nil
	}

	data, err := unix.Mmap(fd, 0, int(st.Size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return mappedFile{}, fmt.Errorf("mmap: %w", err)
	}
	return mappedFile{data: data}, nil
}

func (m mappedFile) bytes() []byte {
	return m.data
}

func (m mappedFile) close() error {
	if len(m.data) == 0 {
		return nil
	}
	return unix.Munmap(m.data)
}
