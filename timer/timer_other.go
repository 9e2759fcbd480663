//go:build !linux

package timer

import (
	"errors"
	"time"

	"github.com/joinframework/join-sub004/reactor"
)

// ErrUnsupportedPlatform is returned by New on platforms without a
// timerfd equivalent wired up. Linux is the only backend implemented
// today, matching the rest of the module's kernel-timer dependency.
var ErrUnsupportedPlatform = errors.New("timer: no timerfd backend for this platform")

type Timer struct{}

func New(r *reactor.Reactor) (*Timer, error)             { return nil, ErrUnsupportedPlatform }
func (t *Timer) Handle() int                             { return -1 }
func (t *Timer) OnReceive()                              {}
func (t *Timer) OnClose()                                {}
func (t *Timer) OnError(err error)                       {}
func (t *Timer) SetOneShot(d time.Duration, f func()) error { return ErrUnsupportedPlatform }
func (t *Timer) SetInterval(d time.Duration, f func()) error { return ErrUnsupportedPlatform }
func (t *Timer) Cancel() error                           { return ErrUnsupportedPlatform }
func (t *Timer) Close() error                            { return nil }
func (t *Timer) Interval() time.Duration                 { return 0 }
func (t *Timer) IsActive() bool                          { return false }
func (t *Timer) IsOneShot() bool                         { return true }
