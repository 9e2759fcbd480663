package reactor

import (
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// pipeHandler is a Handler backed by one end of an os.Pipe, used to drive
// real readiness events through the epoll-backed poller in tests.
type pipeHandler struct {
	r *os.File

	mu        sync.Mutex
	received  int
	closed    int
	errored   int
	lastError error
	received1 chan struct{}
}

func newPipeHandler(r *os.File) *pipeHandler {
	return &pipeHandler{r: r, received1: make(chan struct{}, 64)}
}

func (h *pipeHandler) Handle() int { return int(h.r.Fd()) }

func (h *pipeHandler) OnReceive() {
	buf := make([]byte, 4096)
	_, _ = h.r.Read(buf)
	h.mu.Lock()
	h.received++
	h.mu.Unlock()
	select {
	case h.received1 <- struct{}{}:
	default:
	}
}

func (h *pipeHandler) OnClose() {
	h.mu.Lock()
	h.closed++
	h.mu.Unlock()
}

func (h *pipeHandler) OnError(err error) {
	h.mu.Lock()
	h.errored++
	h.lastError = err
	h.mu.Unlock()
}

func (h *pipeHandler) count() (received, closed, errored int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.received, h.closed, h.errored
}

func waitForReceive(t *testing.T, h *pipeHandler, timeout time.Duration) {
	t.Helper()
	select {
	case <-h.received1:
	case <-time.After(timeout):
		t.Fatal("timed out waiting for OnReceive")
	}
}

func TestAddHandlerSyncDispatchesOnReceive(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	defer r.Shutdown()

	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	defer pw.Close()
	defer pr.Close()

	h := newPipeHandler(pr)
	require.NoError(t, r.AddHandler(h, true))
	require.Equal(t, 1, r.RegisteredCount())

	_, err = pw.Write([]byte("hello"))
	require.NoError(t, err)

	waitForReceive(t, h, time.Second)
	received, _, _ := h.count()
	require.Equal(t, 1, received)
}

func TestDelHandlerSyncStopsFurtherCallbacks(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	defer r.Shutdown()

	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	defer pw.Close()
	defer pr.Close()

	h := newPipeHandler(pr)
	require.NoError(t, r.AddHandler(h, true))

	_, err = pw.Write([]byte("x"))
	require.NoError(t, err)
	waitForReceive(t, h, time.Second)

	require.NoError(t, r.DelHandler(h, true))
	require.Equal(t, 0, r.RegisteredCount())

	_, err = pw.Write([]byte("y"))
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	received, _, _ := h.count()
	require.Equal(t, 1, received) // only the first write was observed
}

func TestShutdownIsIdempotent(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	require.NoError(t, r.Shutdown())
	require.NoError(t, r.Shutdown())
}

func TestHandlerPanicDoesNotKillDispatcher(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	defer r.Shutdown()

	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	defer pw.Close()
	defer pr.Close()

	h := &panicHandler{r: pr}
	require.NoError(t, r.AddHandler(h, true))

	_, err = pw.Write([]byte("boom"))
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	// Dispatcher survived: a second, well-behaved handler still works.
	pr2, pw2, err := os.Pipe()
	require.NoError(t, err)
	defer pw2.Close()
	defer pr2.Close()

	h2 := newPipeHandler(pr2)
	require.NoError(t, r.AddHandler(h2, true))
	_, err = pw2.Write([]byte("ok"))
	require.NoError(t, err)
	waitForReceive(t, h2, time.Second)
}

func TestDispatchMetricsRecordCallbacks(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	defer r.Shutdown()

	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	defer pw.Close()
	defer pr.Close()

	h := newPipeHandler(pr)
	require.NoError(t, r.AddHandler(h, true))

	for i := 0; i < 5; i++ {
		_, err = pw.Write([]byte("x"))
		require.NoError(t, err)
		waitForReceive(t, h, time.Second)
	}

	snap := r.DispatchLatency()
	require.EqualValues(t, 5, snap.Count)
	require.GreaterOrEqual(t, r.DispatchRate(), 0.0)
}

type panicHandler struct {
	r *os.File
}

func (h *panicHandler) Handle() int    { return int(h.r.Fd()) }
func (h *panicHandler) OnReceive()     { panic(fmt.Sprintf("boom on fd %d", h.Handle())) }
func (h *panicHandler) OnClose()       {}
func (h *panicHandler) OnError(error)  {}
