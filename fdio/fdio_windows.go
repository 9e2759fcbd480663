//go:build windows

package fdio

import "errors"

// ErrUnsupportedPlatform is returned by every fdio operation on Windows,
// where bare POSIX fds backing our handlers (pipes, eventfd, timerfd,
// shm) have no equivalent.
var ErrUnsupportedPlatform = errors.New("fdio: unsupported platform")

// Close is unsupported on Windows.
func Close(fd int) error {
	return ErrUnsupportedPlatform
}

// Read is unsupported on Windows.
func Read(fd int, buf []byte) (int, error) {
	return 0, ErrUnsupportedPlatform
}

// Write is unsupported on Windows.
func Write(fd int, buf []byte) (int, error) {
	return 0, ErrUnsupportedPlatform
}
