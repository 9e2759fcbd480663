package reactor

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/joinframework/join-sub004/errkind"
	"github.com/joinframework/join-sub004/logging"
	"github.com/joinframework/join-sub004/metrics"
)

type requestKind int

const (
	reqAdd requestKind = iota
	reqDel
	reqShutdown
)

type request struct {
	kind    requestKind
	handler Handler
	fd      int
	result  chan error
}

type registration struct {
	handler Handler
	state   HandlerState
}

// Reactor is a per-thread, edge-triggered event multiplexer. Exactly one
// dispatch goroutine serves all callbacks for a given Reactor; registered
// handlers never see overlapping callbacks within that Reactor.
type Reactor struct {
	p    *poller
	wake *wakeChannel

	mu       sync.Mutex
	handlers map[int]*registration
	pending  []request

	state    atomicRunState
	stopped  chan struct{}
	shutdown sync.Once
	shutErr  error

	log     zerolog.Logger
	latency *metrics.Latency
	rate    *metrics.Rate

	pinCore int // logical CPU to pin the dispatch goroutine to, or -1
}

// New constructs a standalone Reactor not bound to any ReactorPool. Its
// dispatch goroutine is not pinned to any particular core.
func New() (*Reactor, error) {
	return newReactor(-1)
}

// newReactor starts a Reactor. pinCore, if >= 0, is the logical CPU its
// dispatch goroutine attempts to pin itself to via pinCurrentThread;
// pass -1 to leave scheduling unconstrained.
func newReactor(pinCore int) (*Reactor, error) {
	p, err := newPoller()
	if err != nil {
		return nil, err
	}
	w, err := newWakeChannel()
	if err != nil {
		_ = p.close()
		return nil, err
	}

	r := &Reactor{
		p:        p,
		wake:     w,
		handlers: make(map[int]*registration),
		stopped:  make(chan struct{}),
		log:      logging.Named("reactor"),
		latency:  metrics.NewLatency(),
		rate:     metrics.NewRate(10*time.Second, 100*time.Millisecond),
		pinCore:  pinCore,
	}

	if err := p.add(w.fileDescriptor(), EventRead); err != nil {
		_ = p.close()
		_ = w.close()
		return nil, err
	}

	r.state.store(runRunning)
	go r.run()
	return r, nil
}

func (r *Reactor) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(r.stopped)

	if r.pinCore >= 0 {
		if err := pinCurrentThread(r.pinCore); err != nil {
			r.log.Warn().Err(err).Int("core", r.pinCore).Msg("core pinning failed, continuing unpinned")
		}
	}

	for {
		if err := r.p.wait(-1, r.dispatchReady); err != nil {
			errkind.Set(errkind.OperationFailed, err)
			r.log.Error().Err(err).Msg("poller wait failed")
		}
		r.drainAdmin()
		if r.state.load() == runStopping {
			break
		}
	}

	_ = r.p.close()
	_ = r.wake.close()
	r.state.store(runStopped)
}

// dispatchReady runs on the dispatch goroutine only, invoked inline from
// poller.wait for every fd reported ready.
func (r *Reactor) dispatchReady(fd int, events IOEvents) {
	if fd == r.wake.fileDescriptor() {
		r.wake.drain()
		return
	}

	r.mu.Lock()
	reg, ok := r.handlers[fd]
	if ok {
		reg.state = StateDispatching
	}
	r.mu.Unlock()
	if !ok {
		return
	}

	r.invoke(reg, events)

	r.mu.Lock()
	if reg.state == StateDispatching {
		reg.state = StateIdle
	}
	r.mu.Unlock()
}

func (r *Reactor) invoke(reg *registration, events IOEvents) {
	start := time.Now()
	defer func() {
		r.latency.Record(time.Since(start))
		r.rate.Increment()
		if rec := recover(); rec != nil {
			err := fmt.Errorf("reactor: handler panic: %v", rec)
			errkind.Set(errkind.OperationFailed, err)
			r.log.Error().Interface("panic", rec).Msg("handler callback panicked")
		}
	}()

	switch {
	case events&EventHangup != 0:
		reg.handler.OnClose()
	case events&EventError != 0:
		reg.handler.OnError(fmt.Errorf("reactor: fd %d reported an error condition", reg.handler.Handle()))
	default:
		reg.handler.OnReceive()
	}
}

func (r *Reactor) drainAdmin() {
	r.mu.Lock()
	batch := r.pending
	r.pending = nil
	r.mu.Unlock()

	for _, req := range batch {
		switch req.kind {
		case reqAdd:
			err := r.p.add(req.fd, EventRead)
			if err == nil {
				r.mu.Lock()
				r.handlers[req.fd] = &registration{handler: req.handler, state: StateIdle}
				r.mu.Unlock()
			} else {
				errkind.Set(errkind.OperationFailed, err)
			}
			req.result <- err

		case reqDel:
			r.mu.Lock()
			reg, ok := r.handlers[req.fd]
			if ok {
				delete(r.handlers, req.fd)
				reg.state = StateDetached
			}
			r.mu.Unlock()
			if ok {
				if err := r.p.del(req.fd); err != nil {
					errkind.Set(errkind.OperationFailed, err)
				}
			}
			req.result <- nil

		case reqShutdown:
			r.state.tryTransition(runRunning, runStopping)
			req.result <- nil
		}
		close(req.result)
	}
}

// AddHandler registers h with this Reactor's multiplexer. When sync is
// true, AddHandler returns only after the dispatcher has observed the
// insertion; when false, it returns immediately and the caller does not
// see a registration error: it is recorded only in the dispatch
// goroutine's errkind slot.
func (r *Reactor) AddHandler(h Handler, sync bool) error {
	result := make(chan error, 1)
	r.enqueue(request{kind: reqAdd, handler: h, fd: h.Handle(), result: result})
	if !sync {
		return nil
	}
	return <-result
}

// DelHandler unregisters h. When sync is true, after DelHandler returns
// no further callback on h may start in this dispatcher.
func (r *Reactor) DelHandler(h Handler, sync bool) error {
	result := make(chan error, 1)
	r.enqueue(request{kind: reqDel, fd: h.Handle(), result: result})
	if !sync {
		return nil
	}
	return <-result
}

func (r *Reactor) enqueue(req request) {
	r.mu.Lock()
	r.pending = append(r.pending, req)
	r.mu.Unlock()
	if err := r.wake.post(); err != nil {
		errkind.Set(errkind.OperationFailed, err)
	}
}

// Shutdown posts one shutdown request (one wake token), which moves the
// run state to stopping, and waits for the dispatch goroutine to exit;
// that goroutine releases the multiplexer and wake handles on its way
// out. Safe to call more than once; only the first call does work.
func (r *Reactor) Shutdown() error {
	r.shutdown.Do(func() {
		result := make(chan error, 1)
		r.enqueue(request{kind: reqShutdown, result: result})
		<-result
		<-r.stopped
	})
	return r.shutErr
}

// RegisteredCount returns the number of handlers currently registered.
func (r *Reactor) RegisteredCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handlers)
}

// DispatchLatency returns the current callback-latency percentile
// estimates for this Reactor's dispatch goroutine.
func (r *Reactor) DispatchLatency() metrics.LatencySnapshot {
	return r.latency.Snapshot()
}

// DispatchRate returns the current callback dispatch rate, in callbacks
// per second, averaged over a rolling ten-second window.
func (r *Reactor) DispatchRate() float64 {
	return r.rate.PerSecond()
}
