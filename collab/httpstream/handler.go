package httpstream

import (
	"bytes"
	"io"
	"sync"

	"github.com/joinframework/join-sub004/fdio"
	"github.com/joinframework/join-sub004/reactor"
)

// StreamHandler is a reactor.Handler that decodes incoming
// chunked-transfer-encoded data from its fd and hands each fully
// decoded payload to OnMessage. It demonstrates ChunkedReader driven
// directly from a Reactor dispatch callback.
type StreamHandler struct {
	fd int

	mu      sync.Mutex
	buf     bytes.Buffer
	onClose func()
	onError func(error)

	OnMessage func(payload []byte)
}

// NewStreamHandler wraps an already-open, readable fd.
func NewStreamHandler(fd int) *StreamHandler {
	return &StreamHandler{fd: fd}
}

// Handle implements reactor.Handler.
func (h *StreamHandler) Handle() int { return h.fd }

// OnReceive implements reactor.Handler: it reads whatever is currently
// available, attempts to decode it as one complete chunked body, and
// invokes OnMessage on success. Partial reads that don't yet form a
// complete chunked stream are buffered for the next callback.
func (h *StreamHandler) OnReceive() {
	tmp := make([]byte, 4096)
	n, err := fdio.Read(h.fd, tmp)
	if n > 0 {
		h.mu.Lock()
		h.buf.Write(tmp[:n])
		h.mu.Unlock()
	}
	if err != nil && err != io.EOF {
		if h.onError != nil {
			h.onError(err)
		}
		return
	}

	h.tryDecode()
}

func (h *StreamHandler) tryDecode() {
	h.mu.Lock()
	snapshot := append([]byte(nil), h.buf.Bytes()...)
	h.mu.Unlock()

	cr := NewChunkedReader(bytes.NewReader(snapshot))
	payload, err := io.ReadAll(cr)
	if err != nil {
		// Incomplete chunked stream so far; wait for more data.
		return
	}

	h.mu.Lock()
	h.buf.Reset()
	h.mu.Unlock()

	if h.OnMessage != nil {
		h.OnMessage(payload)
	}
}

// OnClose implements reactor.Handler.
func (h *StreamHandler) OnClose() {
	if h.onClose != nil {
		h.onClose()
	}
}

// OnError implements reactor.Handler.
func (h *StreamHandler) OnError(err error) {
	if h.onError != nil {
		h.onError(err)
	}
}

var _ reactor.Handler = (*StreamHandler)(nil)
