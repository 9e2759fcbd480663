package reactor

import "sync/atomic"

// runState is the Reactor's own lifecycle, distinct from HandlerState
// (which tracks one registration): a lock-free CAS state machine with no
// validation beyond the CAS itself, since the dispatch goroutine is the
// only writer for most transitions.
type runState uint32

const (
	runIdle runState = iota
	runRunning
	runStopping
	runStopped
)

type atomicRunState struct {
	v atomic.Uint32
}

func (s *atomicRunState) load() runState {
	return runState(s.v.Load())
}

func (s *atomicRunState) store(v runState) {
	s.v.Store(uint32(v))
}

func (s *atomicRunState) tryTransition(from, to runState) bool {
	return s.v.CompareAndSwap(uint32(from), uint32(to))
}
