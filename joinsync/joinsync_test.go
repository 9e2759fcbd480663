package joinsync

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestScopedLockUnlocksOnce(t *testing.T) {
	var m Mutex
	l := NewScopedLock(&m)
	require.False(t, m.TryLock()) // still held

	l.Unlock()
	l.Unlock() // idempotent, must not panic or double-unlock

	require.True(t, m.TryLock())
	m.Unlock()
}

func TestScopedLockReleasesOnPanic(t *testing.T) {
	var m Mutex

	func() {
		defer func() { _ = recover() }()
		l := NewScopedLock(&m)
		defer l.Unlock()
		panic("boom")
	}()

	require.True(t, m.TryLock())
	m.Unlock()
}

func TestRecursiveMutexRelock(t *testing.T) {
	m := NewRecursiveMutex()
	m.Lock()
	m.Lock() // same goroutine: must not deadlock
	m.Unlock()
	m.Unlock()

	require.True(t, m.TryLock())
	m.Unlock()
}

func TestRecursiveMutexExcludesOtherGoroutines(t *testing.T) {
	m := NewRecursiveMutex()
	m.Lock()

	done := make(chan bool, 1)
	go func() {
		done <- m.TryLock()
	}()
	require.False(t, <-done)

	m.Unlock()
}

func TestSharedMutexConcurrentReaders(t *testing.T) {
	var m SharedMutex
	m.RLock()
	require.True(t, m.TryRLock())
	m.RUnlock()
	m.RUnlock()

	require.True(t, m.TryLock())
	m.Unlock()
}

func TestConditionWaitUnblocksOnPredicate(t *testing.T) {
	var mu Mutex
	cond := NewCondition(&mu)
	ready := false

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		mu.Lock()
		cond.Wait(func() bool { return ready })
		mu.Unlock()
	}()

	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	ready = true
	cond.Signal()
	mu.Unlock()

	wg.Wait()
}

func TestConditionTimedWaitExpires(t *testing.T) {
	var mu Mutex
	cond := NewCondition(&mu)

	mu.Lock()
	start := time.Now()
	ok := cond.TimedWait(20*time.Millisecond, func() bool { return false })
	elapsed := time.Since(start)
	mu.Unlock()

	require.False(t, ok)
	require.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
}

func TestConditionTimedWaitSatisfiedBeforeDeadline(t *testing.T) {
	var mu Mutex
	cond := NewCondition(&mu)
	var satisfied atomic.Bool

	go func() {
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		satisfied.Store(true)
		cond.Broadcast()
		mu.Unlock()
	}()

	mu.Lock()
	ok := cond.TimedWait(200*time.Millisecond, func() bool { return satisfied.Load() })
	mu.Unlock()

	require.True(t, ok)
}
