// Package backoff implements an adaptive spin/yield escalator for damping
// contention in short busy-wait sections.
//
// Go cannot emit a bare CPU "pause" hint portably, so the spin phase uses
// runtime.Gosched() to back off a contended CAS loop. Past the spin
// budget, Backoff escalates to a real scheduler sleep instead of
// spinning forever.
package backoff

import (
	"runtime"
	"time"
)

// Backoff is a stack-allocated escalator. The zero value is ready to use
// with the default spin budget; use New for a custom one.
type Backoff struct {
	spinBudget int
	counter    int
}

const defaultSpinBudget = 64
const maxSleep = 1 * time.Millisecond

// New returns a Backoff with the given spin budget. A non-positive budget
// disables the spin phase entirely (every Pause yields the thread).
func New(spinBudget int) *Backoff {
	if spinBudget <= 0 {
		// 0 is reserved for the zero value's default budget; any
		// negative budget skips the spin phase.
		spinBudget = -1
	}
	return &Backoff{spinBudget: spinBudget}
}

func (b *Backoff) budget() int {
	if b.spinBudget == 0 {
		return defaultSpinBudget
	}
	return b.spinBudget
}

// Pause escalates: while the internal counter is below the spin budget it
// calls runtime.Gosched() (cheap, keeps the goroutine runnable); once past
// the budget it sleeps for a short, linearly growing duration capped at
// maxSleep, yielding the OS thread to other work.
func (b *Backoff) Pause() {
	budget := b.budget()
	if b.counter < budget {
		runtime.Gosched()
		b.counter++
		return
	}

	over := b.counter - budget + 1
	d := time.Duration(over) * 10 * time.Microsecond
	if d > maxSleep {
		d = maxSleep
	}
	time.Sleep(d)
	b.counter++
}

// Reset clears the internal counter, returning Pause to the spin phase.
func (b *Backoff) Reset() {
	b.counter = 0
}

// Count returns the number of Pause calls since construction or the last
// Reset. Exposed for tests that assert escalation behaviour.
func (b *Backoff) Count() int {
	return b.counter
}
