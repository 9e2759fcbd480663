package joinsync

import "sync"

// ScopedLock acquires its Locker on construction and guarantees release
// exactly once, even if Unlock is called more than once or a panic
// unwinds through the deferred call.
//
// Usage is an RAII-style guard:
//
//	l := joinsync.NewScopedLock(&m)
//	defer l.Unlock()
type ScopedLock[M Locker] struct {
	m    M
	once sync.Once
}

// NewScopedLock locks m and returns a guard that will unlock it exactly
// once.
func NewScopedLock[M Locker](m M) *ScopedLock[M] {
	m.Lock()
	return &ScopedLock[M]{m: m}
}

// Unlock releases the underlying lock. Safe to call more than once or
// under defer after an early return; only the first call has effect.
func (s *ScopedLock[M]) Unlock() {
	s.once.Do(func() {
		s.m.Unlock()
	})
}
