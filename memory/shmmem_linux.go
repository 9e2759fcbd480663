//go:build linux

package memory

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
)

const shmDir = "/dev/shm"

// ShmMem is a POSIX-named shared memory segment: a tmpfs-backed file
// under /dev/shm, memory-mapped like a LocalMem. Open maps, Close
// unmaps, Unlink removes the backing name — the same three-call shape
// shm_open/mmap/munmap/shm_unlink gives native code.
type ShmMem struct {
	name   string
	length uint64

	mu     sync.Mutex
	fd     int
	data   []byte
	opened bool
}

// NewShmMem validates name and length without touching the filesystem;
// Open performs the actual shm_open-equivalent + mmap.
func NewShmMem(name string, length uint64) (*ShmMem, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}
	if overflowsLength(length) {
		return nil, ErrInvalidLength
	}
	return &ShmMem{name: name, length: length, fd: -1}, nil
}

func shmPath(name string) string {
	return filepath.Join(shmDir, filepath.Base(name))
}

// Open creates the named segment exclusively, attaching to an existing
// one of the same name if it already exists. Double-open within this
// process returns ErrAlreadyOpened.
func (s *ShmMem) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opened {
		return ErrAlreadyOpened
	}

	pageSize := uint64(unix.Getpagesize())
	rounded := pageRound(s.length, pageSize)

	fd, err := unix.Open(shmPath(s.name), unix.O_CREAT|unix.O_EXCL|unix.O_RDWR, 0600)
	if errors.Is(err, unix.EEXIST) {
		fd, err = unix.Open(shmPath(s.name), unix.O_RDWR, 0600)
	}
	if err != nil {
		return fmt.Errorf("memory: shm open %q: %w", s.name, err)
	}

	if err := unix.Ftruncate(fd, int64(rounded)); err != nil {
		_ = unix.Close(fd)
		return fmt.Errorf("memory: shm truncate %q: %w", s.name, err)
	}

	data, err := unix.Mmap(fd, 0, int(rounded), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Close(fd)
		return fmt.Errorf("memory: shm mmap %q: %w", s.name, err)
	}

	s.fd = fd
	s.data = data
	s.opened = true
	return nil
}

// Opened reports whether the segment is currently mapped.
func (s *ShmMem) Opened() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened
}

// Get returns a slice starting at off, failing with ErrOutOfRange for
// off >= L, or ErrDetached if not currently open.
func (s *ShmMem) Get(off uint64) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return nil, ErrDetached
	}
	if off >= s.length {
		return nil, outOfRangeErr(off, s.length)
	}
	return s.data[off:], nil
}

// Close unmaps the segment and closes its file descriptor, but leaves
// the backing name intact for a future Open (by this or another
// process).
func (s *ShmMem) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return nil
	}
	err := unix.Munmap(s.data)
	_ = unix.Close(s.fd)
	s.data = nil
	s.fd = -1
	s.opened = false
	return err
}

// Unlink removes the backing name. Safe to call whether or not the
// segment is currently open in this process.
func (s *ShmMem) Unlink() error {
	return unix.Unlink(shmPath(s.name))
}

// SharedMemory is an alternate name for the same concept, for callers
// that prefer it.
type SharedMemory = ShmMem

// NewSharedMemory is SharedMemory's constructor.
func NewSharedMemory(name string, length uint64) (*SharedMemory, error) {
	return NewShmMem(name, length)
}
