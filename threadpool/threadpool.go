// Package threadpool implements a fixed-size worker pool draining a FIFO
// job deque under one mutex/condition pair, plus a ParallelForEach helper
// built on a transient pool.
package threadpool

import (
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/joinframework/join-sub004/config"
	"github.com/joinframework/join-sub004/joinsync"
	"github.com/joinframework/join-sub004/logging"
	"github.com/joinframework/join-sub004/metrics"
)

// ErrInvalidWorkerCount is returned by New when asked for fewer than one
// worker.
var ErrInvalidWorkerCount = errors.New("threadpool: worker count must be >= 1")

// Pool is a fixed-size worker pool draining one shared job queue. The
// zero value is not usable; construct with New.
type Pool struct {
	mu      joinsync.Mutex
	cond    *joinsync.Condition
	queue   jobQueue
	stop    bool
	workers int
	wg      sync.WaitGroup

	depth      metrics.QueueDepth
	throughput *metrics.Rate
}

// New starts a Pool with the given number of workers. workers must be >=
// 1, otherwise ErrInvalidWorkerCount is returned and no goroutines are
// started.
func New(workers int) (*Pool, error) {
	if workers < 1 {
		return nil, ErrInvalidWorkerCount
	}

	p := &Pool{workers: workers, throughput: metrics.NewRate(10*time.Second, 100*time.Millisecond)}
	p.cond = joinsync.NewCondition(&p.mu)

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.run()
	}
	return p, nil
}

// NewFromConfig starts a Pool sized from cfg.Workers, falling back to
// runtime.GOMAXPROCS(0)+1 (this package's long-standing default for an
// unsized pool) when cfg.Workers is 0.
func NewFromConfig(cfg config.ThreadPoolConfig) (*Pool, error) {
	workers := cfg.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0) + 1
	}
	return New(workers)
}

func (p *Pool) run() {
	defer p.wg.Done()
	log := logging.Named("threadpool")

	for {
		p.mu.Lock()
		p.cond.Wait(func() bool { return p.queue.len() > 0 || p.stop })

		job, ok := p.queue.pop()
		depth := p.queue.len()
		p.mu.Unlock()

		if !ok {
			// Woken for shutdown with nothing left to drain.
			return
		}
		p.depth.Update(depth)

		func() {
			defer func() {
				p.throughput.Increment()
				if r := recover(); r != nil {
					log.Error().Interface("panic", r).Msg("job panicked")
				}
			}()
			job()
		}()
	}
}

// Push appends a job to the back of the queue and wakes one worker. Push
// after Close is a no-op; the job is silently dropped since no new work
// is accepted once shutdown has begun.
func (p *Pool) Push(job func()) {
	p.mu.Lock()
	if p.stop {
		p.mu.Unlock()
		return
	}
	p.queue.push(job)
	depth := p.queue.len()
	p.mu.Unlock()
	p.depth.Update(depth)
	p.cond.Signal()
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int {
	return p.workers
}

// Pending returns the number of jobs currently queued but not yet
// started.
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.len()
}

// QueueDepth returns the current queue-depth gauge (current/max/EMA).
func (p *Pool) QueueDepth() metrics.QueueDepthSnapshot {
	return p.depth.Snapshot()
}

// Throughput returns the current job completion rate, in jobs per
// second, averaged over a rolling ten-second window.
func (p *Pool) Throughput() float64 {
	return p.throughput.PerSecond()
}

// Close sets the stop flag, wakes every worker, and joins them all. All
// jobs pushed before Close observably run to completion before Close
// returns.
func (p *Pool) Close() {
	p.mu.Lock()
	p.stop = true
	p.mu.Unlock()
	p.cond.Broadcast()
	p.wg.Wait()
}

// ParallelForEach builds a transient pool sized runtime.GOMAXPROCS(0)+1,
// pushes f(item) for every element of items, and blocks until every
// invocation has completed.
func ParallelForEach[T any](items []T, f func(T)) {
	if len(items) == 0 {
		return
	}

	pool, err := New(runtime.GOMAXPROCS(0) + 1)
	if err != nil {
		// runtime.GOMAXPROCS(0)+1 is always >= 1; unreachable in practice.
		panic(err)
	}

	var wg sync.WaitGroup
	wg.Add(len(items))
	for _, item := range items {
		item := item
		pool.Push(func() {
			defer wg.Done()
			f(item)
		})
	}
	wg.Wait()
	pool.Close()
}
