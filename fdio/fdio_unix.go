//go:build linux || darwin

// Package fdio wraps raw file-descriptor I/O behind a small
// platform-independent surface, so collaborators that read/write a bare
// fd (rather than an *os.File) don't each need their own build-tagged
// syscall shim.
package fdio

import "golang.org/x/sys/unix"

// Close closes fd.
func Close(fd int) error {
	return unix.Close(fd)
}

// Read reads into buf from fd.
func Read(fd int, buf []byte) (int, error) {
	return unix.Read(fd, buf)
}

// Write writes buf to fd.
func Write(fd int, buf []byte) (int, error) {
	return unix.Write(fd, buf)
}
