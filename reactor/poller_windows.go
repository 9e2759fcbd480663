//go:build windows

package reactor

import "errors"

// ErrUnsupportedPlatform is returned by newPoller on platforms without an
// edge-triggered multiplexer backend. This reactor is built around
// epoll/eventfd/timerfd; a Windows IOCP backend is future work.
var ErrUnsupportedPlatform = errors.New("reactor: no poller backend for this platform")

type poller struct{}

func newPoller() (*poller, error) {
	return nil, ErrUnsupportedPlatform
}

func (p *poller) add(fd int, events IOEvents) error                 { return ErrUnsupportedPlatform }
func (p *poller) del(fd int) error                                  { return ErrUnsupportedPlatform }
func (p *poller) wait(timeoutMs int, cb func(int, IOEvents)) error   { return ErrUnsupportedPlatform }
func (p *poller) close() error                                       { return nil }
