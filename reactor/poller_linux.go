//go:build linux

package reactor

import (
	"sync"

	"golang.org/x/sys/unix"
)

// poller wraps epoll in edge-triggered mode. Registration uses a map
// keyed by fd, since the handler count is expected to be small, and
// EPOLLET is always set.
type poller struct {
	epfd int

	mu  sync.RWMutex
	fds map[int]IOEvents

	eventBuf [256]unix.EpollEvent
}

func newPoller() (*poller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &poller{epfd: epfd, fds: make(map[int]IOEvents)}, nil
}

func (p *poller) add(fd int, events IOEvents) error {
	p.mu.Lock()
	p.fds[fd] = events
	p.mu.Unlock()

	ev := &unix.EpollEvent{Events: eventsToEpoll(events) | unix.EPOLLET, Fd: int32(fd)}
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, ev); err != nil {
		p.mu.Lock()
		delete(p.fds, fd)
		p.mu.Unlock()
		return err
	}
	return nil
}

func (p *poller) del(fd int) error {
	p.mu.Lock()
	_, ok := p.fds[fd]
	delete(p.fds, fd)
	p.mu.Unlock()
	if !ok {
		return nil
	}
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil)
}

// wait blocks up to timeoutMs (-1 = forever) and invokes cb for every
// ready fd with its reported IOEvents.
func (p *poller) wait(timeoutMs int, cb func(fd int, events IOEvents)) error {
	n, err := unix.EpollWait(p.epfd, p.eventBuf[:], timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return nil
		}
		return err
	}
	for i := 0; i < n; i++ {
		fd := int(p.eventBuf[i].Fd)
		cb(fd, epollToEvents(p.eventBuf[i].Events))
	}
	return nil
}

func (p *poller) close() error {
	return unix.Close(p.epfd)
}

func eventsToEpoll(events IOEvents) uint32 {
	var e uint32
	if events&EventRead != 0 {
		e |= unix.EPOLLIN
	}
	if events&EventWrite != 0 {
		e |= unix.EPOLLOUT
	}
	return e
}

func epollToEvents(e uint32) IOEvents {
	var events IOEvents
	if e&unix.EPOLLIN != 0 {
		events |= EventRead
	}
	if e&unix.EPOLLOUT != 0 {
		events |= EventWrite
	}
	if e&unix.EPOLLERR != 0 {
		events |= EventError
	}
	if e&unix.EPOLLHUP != 0 {
		events |= EventHangup
	}
	return events
}
