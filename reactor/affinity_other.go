//go:build !linux

package reactor

// pinCurrentThread is a no-op outside Linux. Neither Darwin nor Windows
// expose a "pin this OS thread to a logical CPU" call through
// golang.org/x/sys/unix, so pinning is Linux-only and best-effort
// everywhere else: the dispatch goroutine runs unpinned rather than
// failing to start.
func pinCurrentThread(core int) error {
	return nil
}
