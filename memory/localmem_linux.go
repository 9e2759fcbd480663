//go:build linux

package memory

import (
	"sync"

	"golang.org/x/sys/unix"
)

// LocalMem is an anonymous, page-aligned region of L bytes, optionally
// locked resident in RAM. Move (Detach) leaves the source in a detached
// state where Get fails with ErrDetached.
type LocalMem struct {
	mu       sync.Mutex
	data     []byte
	length   uint64
	locked   bool
	detached bool
}

// NewLocalMem allocates L>0 anonymous pages. L must be representable
// after page-rounding (L < max uint64), else ErrInvalidLength.
func NewLocalMem(length uint64) (*LocalMem, error) {
	if overflowsLength(length) {
		return nil, ErrInvalidLength
	}

	pageSize := uint64(unix.Getpagesize())
	rounded := pageRound(length, pageSize)
	if rounded < length { // defensive: rounding wrapped
		return nil, ErrInvalidLength
	}

	data, err := unix.Mmap(-1, 0, int(rounded), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, err
	}

	return &LocalMem{data: data, length: length}, nil
}

// Lock requests the region be pinned resident in RAM via mlock.
func (m *LocalMem) Lock() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.detached {
		return ErrDetached
	}
	if err := unix.Mlock(m.data); err != nil {
		return err
	}
	m.locked = true
	return nil
}

// Locked reports whether the region is currently mlocked.
func (m *LocalMem) Locked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked
}

// Len returns the logical length L requested at construction.
func (m *LocalMem) Len() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.length
}

// Get returns a slice of the region's bytes starting at off, running to
// the end of the mapped region. off >= L fails with ErrOutOfRange.
func (m *LocalMem) Get(off uint64) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.detached {
		return nil, ErrDetached
	}
	if off >= m.length {
		return nil, outOfRangeErr(off, m.length)
	}
	return m.data[off:], nil
}

// Detach transfers ownership of the region's descriptor to a new
// LocalMem and leaves the receiver in the detached state, where Get
// fails.
func (m *LocalMem) Detach() *LocalMem {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.detached {
		return &LocalMem{detached: true}
	}
	moved := &LocalMem{data: m.data, length: m.length, locked: m.locked}
	m.data = nil
	m.length = 0
	m.detached = true
	return moved
}

// Close unmaps (and, if locked, unlocks) the region.
func (m *LocalMem) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.detached || m.data == nil {
		return nil
	}
	if m.locked {
		_ = unix.Munlock(m.data)
	}
	err := unix.Munmap(m.data)
	m.data = nil
	m.detached = true
	return err
}
