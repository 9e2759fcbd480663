//go:build darwin

package reactor

import (
	"sync"

	"golang.org/x/sys/unix"
)

// poller wraps kqueue in one-shot-free (EV_CLEAR) edge-triggered mode.
type poller struct {
	kq int

	mu  sync.RWMutex
	fds map[int]IOEvents

	eventBuf [256]unix.Kevent_t
}

func newPoller() (*poller, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return nil, err
	}
	return &poller{kq: kq, fds: make(map[int]IOEvents)}, nil
}

func (p *poller) add(fd int, events IOEvents) error {
	p.mu.Lock()
	p.fds[fd] = events
	p.mu.Unlock()

	changes := kqueueChanges(fd, events, unix.EV_ADD|unix.EV_CLEAR)
	if _, err := unix.Kevent(p.kq, changes, nil, nil); err != nil {
		p.mu.Lock()
		delete(p.fds, fd)
		p.mu.Unlock()
		return err
	}
	return nil
}

func (p *poller) del(fd int) error {
	p.mu.Lock()
	events, ok := p.fds[fd]
	delete(p.fds, fd)
	p.mu.Unlock()
	if !ok {
		return nil
	}
	changes := kqueueChanges(fd, events, unix.EV_DELETE)
	_, err := unix.Kevent(p.kq, changes, nil, nil)
	return err
}

func kqueueChanges(fd int, events IOEvents, flags uint16) []unix.Kevent_t {
	var changes []unix.Kevent_t
	if events&EventRead != 0 {
		changes = append(changes, unix.Kevent_t{Ident: uint64(fd), Filter: unix.EVFILT_READ, Flags: flags})
	}
	if events&EventWrite != 0 {
		changes = append(changes, unix.Kevent_t{Ident: uint64(fd), Filter: unix.EVFILT_WRITE, Flags: flags})
	}
	return changes
}

func (p *poller) wait(timeoutMs int, cb func(fd int, events IOEvents)) error {
	var ts *unix.Timespec
	if timeoutMs >= 0 {
		t := unix.NsecToTimespec(int64(timeoutMs) * int64(1_000_000))
		ts = &t
	}

	n, err := unix.Kevent(p.kq, nil, p.eventBuf[:], ts)
	if err != nil {
		if err == unix.EINTR {
			return nil
		}
		return err
	}
	for i := 0; i < n; i++ {
		ev := p.eventBuf[i]
		fd := int(ev.Ident)
		var events IOEvents
		switch ev.Filter {
		case unix.EVFILT_READ:
			events |= EventRead
		case unix.EVFILT_WRITE:
			events |= EventWrite
		}
		if ev.Flags&unix.EV_EOF != 0 {
			events |= EventHangup
		}
		if ev.Flags&unix.EV_ERROR != 0 {
			events |= EventError
		}
		cb(fd, events)
	}
	return nil
}

func (p *poller) close() error {
	return unix.Close(p.kq)
}
