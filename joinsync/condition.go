package joinsync

import (
	"sync"
	"time"
)

// Condition binds a sync.Cond to a predicate-wait protocol: Wait blocks
// while the predicate is false, TimedWait additionally bounds the wait
// by a monotonic deadline.
//
// sync.Cond has no native timed wait. The standard workaround — and the
// one used here — is a background timer that calls Broadcast once the
// deadline passes, waking every waiter so each can re-check its own
// predicate and its own deadline.
type Condition struct {
	_    noCopy
	cond *sync.Cond
}

// NewCondition binds a Condition to the given Locker. The caller must
// hold m before calling Wait/TimedWait/Signal/Broadcast, exactly as the
// spec requires.
func NewCondition(m Locker) *Condition {
	return &Condition{cond: sync.NewCond(m)}
}

// Wait blocks, releasing the paired lock, until pred() is true, then
// reacquires the lock before returning. Spurious wakeups are tolerated by
// re-checking pred in a loop.
func (c *Condition) Wait(pred func() bool) {
	for !pred() {
		c.cond.Wait()
	}
}

// TimedWait is identical to Wait but gives up once the monotonic deadline
// d has elapsed with pred() still false, returning false in that case.
// The paired lock is held on return either way.
func (c *Condition) TimedWait(d time.Duration, pred func() bool) bool {
	if pred() {
		return true
	}

	deadline := time.Now().Add(d)
	stop := make(chan struct{})
	var once sync.Once
	timer := time.AfterFunc(d, func() {
		// Broadcast wakes every waiter on this Condition so each can
		// re-check its own predicate/deadline; harmless if c.cond is
		// shared by multiple logical waits in flight. Taking the lock
		// keeps the wakeup from landing between a waiter's deadline
		// check and its cond.Wait.
		c.cond.L.Lock()
		c.cond.Broadcast()
		c.cond.L.Unlock()
	})
	defer func() {
		once.Do(func() { close(stop) })
		timer.Stop()
	}()

	for !pred() {
		if !time.Now().Before(deadline) {
			return pred()
		}
		c.cond.Wait()
	}
	return true
}

// Signal wakes one waiter.
func (c *Condition) Signal() { c.cond.Signal() }

// Broadcast wakes all waiters.
func (c *Condition) Broadcast() { c.cond.Broadcast() }

// SharedCondition is a Condition paired with a SharedMutex's exclusive
// side, for call sites that otherwise want reader/writer semantics on the
// same lock used for waiting.
type SharedCondition struct {
	*Condition
}

// NewSharedCondition binds a SharedCondition to the exclusive side of m.
func NewSharedCondition(m *SharedMutex) *SharedCondition {
	return &SharedCondition{Condition: NewCondition(&exclusiveLocker{m})}
}

type exclusiveLocker struct{ m *SharedMutex }

func (e *exclusiveLocker) Lock()   { e.m.Lock() }
func (e *exclusiveLocker) Unlock() { e.m.Unlock() }
