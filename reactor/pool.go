package reactor

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/joinframework/join-sub004/config"
	"github.com/joinframework/join-sub004/cpu"
)

// Pool is a process-wide singleton owning one Reactor per physical core.
// Reactor i's dispatch goroutine is best-effort pinned, via
// unix.SchedSetaffinity, to core i's primary thread (cores beyond
// len(cpu.Get().Cores()), possible when NewPool is called directly with an
// oversized count, run unpinned). AddHandler places a handler on a
// Reactor chosen by a round-robin atomic rotor; DelHandler is routed
// back to whichever Reactor holds the handler, recorded in a sync.Map
// keyed by the handler's fd at insertion time.
type Pool struct {
	reactors []*Reactor
	rotor    atomic.Uint64
	owner    sync.Map // fd (int) -> *Reactor
}

var (
	poolOnce sync.Once
	pool     *Pool
	poolErr  error
)

// Default returns the process-wide Pool singleton, constructing one
// pinned reactor per physical core (cpu.Get().Cores()) on first call.
// Use DefaultFromConfig before any call to Default if the process wants
// config-driven sizing/pinning for the singleton.
func Default() (*Pool, error) {
	poolOnce.Do(func() {
		pool, poolErr = newPoolFromConfig(config.ReactorConfig{PinToCores: true})
	})
	return pool, poolErr
}

// DefaultFromConfig returns the process-wide Pool singleton, sizing and
// pinning it from cfg on first call; subsequent calls (with or without
// a cfg) return the same instance regardless of cfg, matching Default.
func DefaultFromConfig(cfg config.ReactorConfig) (*Pool, error) {
	poolOnce.Do(func() {
		pool, poolErr = newPoolFromConfig(cfg)
	})
	return pool, poolErr
}

// NewPool constructs an independent Pool with the given reactor count,
// pinned one-per-core, bypassing the process-wide singleton. Intended
// for tests.
func NewPool(size int) (*Pool, error) {
	if size < 1 {
		size = 1
	}
	return buildPool(size, true)
}

// NewPoolFromConfig constructs an independent Pool sized and pinned
// according to cfg, bypassing the process-wide singleton.
func NewPoolFromConfig(cfg config.ReactorConfig) (*Pool, error) {
	return newPoolFromConfig(cfg)
}

func newPoolFromConfig(cfg config.ReactorConfig) (*Pool, error) {
	size := cfg.PoolSize
	if size < 1 {
		size = len(cpu.Get().Cores())
	}
	if size < 1 {
		size = 1
	}
	return buildPool(size, cfg.PinToCores)
}

func buildPool(size int, pinToCores bool) (*Pool, error) {
	cores := cpu.Get().Cores()

	p := &Pool{reactors: make([]*Reactor, 0, size)}
	for i := 0; i < size; i++ {
		pin := -1
		if pinToCores && i < len(cores) {
			pin = cores[i].PrimaryThread
		}
		r, err := newReactor(pin)
		if err != nil {
			for _, started := range p.reactors {
				_ = started.Shutdown()
			}
			return nil, fmt.Errorf("reactor: pool: starting reactor %d: %w", i, err)
		}
		p.reactors = append(p.reactors, r)
	}
	return p, nil
}

// Size returns the number of reactors in the pool.
func (p *Pool) Size() int {
	return len(p.reactors)
}

// AddHandler selects a Reactor by fetch-add on the rotor modulo pool size
// and forwards the registration, recording which Reactor now owns the
// handler's fd.
func (p *Pool) AddHandler(h Handler, sync bool) error {
	idx := int(p.rotor.Add(1)-1) % len(p.reactors)
	r := p.reactors[idx]

	p.owner.Store(h.Handle(), r)
	if err := r.AddHandler(h, sync); err != nil {
		p.owner.Delete(h.Handle())
		return err
	}
	return nil
}

// DelHandler routes the deletion to the Reactor that owns the handler's
// fd, per the fd->Reactor map recorded by AddHandler.
func (p *Pool) DelHandler(h Handler, sync bool) error {
	v, ok := p.owner.LoadAndDelete(h.Handle())
	if !ok {
		return fmt.Errorf("reactor: pool: fd %d not registered via this pool", h.Handle())
	}
	r := v.(*Reactor)
	return r.DelHandler(h, sync)
}

// DispatchRate returns the sum of every constituent Reactor's dispatch
// rate, in callbacks per second.
func (p *Pool) DispatchRate() float64 {
	var total float64
	for _, r := range p.reactors {
		total += r.DispatchRate()
	}
	return total
}

// Shutdown tears down every reactor in the pool.
func (p *Pool) Shutdown() error {
	var firstErr error
	for _, r := range p.reactors {
		if err := r.Shutdown(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
