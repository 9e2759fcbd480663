//go:build linux

// Package timer implements one-shot and periodic callbacks driven by a
// kernel timerfd handle registered as a reactor.Handler.
package timer

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/joinframework/join-sub004/errkind"
	"github.com/joinframework/join-sub004/logging"
	"github.com/joinframework/join-sub004/reactor"
)

// Timer owns a kernel timer descriptor and a callback. The zero shape —
// interval 0, inactive, one-shot — is what Cancel restores and what a
// moved-from Timer (in spirit: a Timer whose descriptor has been given
// up) would present.
type Timer struct {
	fd int
	r  *reactor.Reactor

	mu       sync.Mutex
	interval time.Duration
	oneShot  bool
	active   bool
	callback func()
}

// New creates a disarmed Timer and registers it with r. The timerfd is
// created with CLOCK_MONOTONIC, matching the Condition package's use of
// the monotonic clock for deadlines.
func New(r *reactor.Reactor) (*Timer, error) {
	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_CLOEXEC|unix.TFD_NONBLOCK)
	if err != nil {
		return nil, err
	}

	t := &Timer{fd: fd, r: r, oneShot: true}
	if err := r.AddHandler(t, true); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}
	return t, nil
}

// Handle implements reactor.Handler.
func (t *Timer) Handle() int { return t.fd }

// OnReceive implements reactor.Handler: it drains the expiration counter
// and invokes the callback exactly once regardless of how many intervals
// elapsed (missed-tick coalescing), then updates state for one-shot
// timers.
func (t *Timer) OnReceive() {
	var buf [8]byte
	if _, err := unix.Read(t.fd, buf[:]); err != nil {
		// EAGAIN: no expirations to drain, so nothing fires.
		if err != unix.EAGAIN {
			errkind.Set(errkind.OperationFailed, err)
		}
		return
	}

	t.mu.Lock()
	cb := t.callback
	oneShot := t.oneShot
	if oneShot {
		t.active = false
	}
	t.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// OnClose implements reactor.Handler.
func (t *Timer) OnClose() {
	t.mu.Lock()
	t.active = false
	t.mu.Unlock()
}

// OnError implements reactor.Handler.
func (t *Timer) OnError(err error) {
	errkind.Set(errkind.OperationFailed, err)
	logging.Named("timer").Error().Err(err).Msg("timerfd reported an error")
	t.mu.Lock()
	t.active = false
	t.mu.Unlock()
}

// SetOneShot arms the timer to fire f exactly once after d.
func (t *Timer) SetOneShot(d time.Duration, f func()) error {
	spec := unix.ItimerSpec{Value: unix.NsecToTimespec(d.Nanoseconds())}
	if err := unix.TimerfdSettime(t.fd, 0, &spec, nil); err != nil {
		return err
	}

	t.mu.Lock()
	t.callback = f
	t.interval = 0
	t.oneShot = true
	t.active = true
	t.mu.Unlock()
	return nil
}

// SetInterval arms the timer to fire f every d, first firing d after
// this call.
func (t *Timer) SetInterval(d time.Duration, f func()) error {
	ts := unix.NsecToTimespec(d.Nanoseconds())
	spec := unix.ItimerSpec{Interval: ts, Value: ts}
	if err := unix.TimerfdSettime(t.fd, 0, &spec, nil); err != nil {
		return err
	}

	t.mu.Lock()
	t.callback = f
	t.interval = d
	t.oneShot = false
	t.active = true
	t.mu.Unlock()
	return nil
}

// Cancel disarms the timer. On return, Interval()==0, IsActive()==false,
// IsOneShot()==true: the default shape.
func (t *Timer) Cancel() error {
	if err := unix.TimerfdSettime(t.fd, 0, &unix.ItimerSpec{}, nil); err != nil {
		return err
	}

	t.mu.Lock()
	t.interval = 0
	t.active = false
	t.oneShot = true
	t.mu.Unlock()
	return nil
}

// Close cancels the timer, unregisters it from its Reactor, and closes
// the underlying timerfd.
func (t *Timer) Close() error {
	_ = t.Cancel()
	if err := t.r.DelHandler(t, true); err != nil {
		return err
	}
	return unix.Close(t.fd)
}

// Interval returns the currently configured periodic interval, 0 for a
// one-shot or disarmed timer.
func (t *Timer) Interval() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.interval
}

// IsActive reports whether the timer is currently armed.
func (t *Timer) IsActive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// IsOneShot reports whether the timer, if armed, fires only once.
func (t *Timer) IsOneShot() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.oneShot
}
