//go:build !linux

package memory

import "errors"

// ErrUnsupportedPlatform is returned on platforms without the mmap/mlock
// backend wired up.
var ErrUnsupportedPlatform = errors.New("memory: no mmap backend for this platform")

type LocalMem struct{}

func NewLocalMem(length uint64) (*LocalMem, error)   { return nil, ErrUnsupportedPlatform }
func (m *LocalMem) Lock() error                      { return ErrUnsupportedPlatform }
func (m *LocalMem) Locked() bool                      { return false }
func (m *LocalMem) Len() uint64                       { return 0 }
func (m *LocalMem) Get(off uint64) ([]byte, error)    { return nil, ErrUnsupportedPlatform }
func (m *LocalMem) Detach() *LocalMem                 { return &LocalMem{} }
func (m *LocalMem) Close() error                      { return nil }

type ShmMem struct{}

func NewShmMem(name string, length uint64) (*ShmMem, error) { return nil, ErrUnsupportedPlatform }
func (s *ShmMem) Open() error                                { return ErrUnsupportedPlatform }
func (s *ShmMem) Opened() bool                               { return false }
func (s *ShmMem) Get(off uint64) ([]byte, error)             { return nil, ErrUnsupportedPlatform }
func (s *ShmMem) Close() error                               { return nil }
func (s *ShmMem) Unlink() error                              { return ErrUnsupportedPlatform }

type SharedMemory = ShmMem

func NewSharedMemory(name string, length uint64) (*SharedMemory, error) {
	return NewShmMem(name, length)
}
