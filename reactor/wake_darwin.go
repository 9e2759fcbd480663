//go:build darwin

package reactor

import "golang.org/x/sys/unix"

// wakeChannel on Darwin is a self-pipe (no eventfd equivalent); the read
// end is registered with kqueue exactly like any other readable fd.
type wakeChannel struct {
	readFD  int
	writeFD int
}

func newWakeChannel() (*wakeChannel, error) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return nil, err
	}
	if err := unix.SetNonblock(fds[0], true); err != nil {
		unix.Close(fds[0])
		unix.Close(fds[1])
		return nil, err
	}
	if err := unix.SetNonblock(fds[1], true); err != nil {
		unix.Close(fds[0])
		unix.Close(fds[1])
		return nil, err
	}
	return &wakeChannel{readFD: fds[0], writeFD: fds[1]}, nil
}

func (w *wakeChannel) fileDescriptor() int { return w.readFD }

func (w *wakeChannel) post() error {
	_, err := unix.Write(w.writeFD, []byte{1})
	if err != nil && err != unix.EAGAIN {
		return err
	}
	return nil
}

func (w *wakeChannel) drain() {
	var buf [64]byte
	for {
		_, err := unix.Read(w.readFD, buf[:])
		if err != nil {
			return
		}
	}
}

func (w *wakeChannel) close() error {
	unix.Close(w.writeFD)
	return unix.Close(w.readFD)
}
