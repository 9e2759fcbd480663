//go:build linux

package reactor

import "golang.org/x/sys/unix"

// pinCurrentThread best-effort pins the calling OS thread to the given
// logical CPU. Errors are non-fatal: an unpinned reactor still
// dispatches correctly, just without the cache-locality benefit
// affinity buys.
func pinCurrentThread(core int) error {
	var mask unix.CPUSet
	mask.Set(core)
	return unix.SchedSetaffinity(0, &mask)
}
