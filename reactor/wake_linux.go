//go:build linux

package reactor

import "golang.org/x/sys/unix"

// wakeChannel is a self-pipe built on eventfd: any administrative
// request (add, remove, shutdown) writes one token, and the dispatch
// goroutine drains and coalesces tokens on wake. Collapsed to
// Linux-only since EFD_NONBLOCK eventfd is what's actually wired into
// the Reactor.
type wakeChannel struct {
	fd int
}

func newWakeChannel() (*wakeChannel, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return nil, err
	}
	return &wakeChannel{fd: fd}, nil
}

func (w *wakeChannel) fileDescriptor() int { return w.fd }

// post writes one token, waking the dispatcher out of poller.wait.
func (w *wakeChannel) post() error {
	buf := [8]byte{0, 0, 0, 0, 0, 0, 0, 1}
	_, err := unix.Write(w.fd, buf[:])
	if err != nil && err != unix.EAGAIN {
		return err
	}
	return nil
}

// drain reads and discards every pending token.
func (w *wakeChannel) drain() {
	var buf [8]byte
	for {
		_, err := unix.Read(w.fd, buf[:])
		if err != nil {
			return
		}
	}
}

func (w *wakeChannel) close() error {
	return unix.Close(w.fd)
}
