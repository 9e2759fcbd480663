package crypto

import (
	"github.com/joinframework/join-sub004/fdio"
	"github.com/joinframework/join-sub004/reactor"
)

// Verifier is a reactor.Handler that reads a message from its fd,
// verifies an HMAC tag over the payload, and signs an acknowledgement
// before OnReceive returns — demonstrating the crypto surface invoked
// directly from a dispatch callback rather than off-reactor.
type Verifier struct {
	fd      int
	key     []byte
	Acked   func(ack []byte)
	Invalid func(reason string)
}

// NewVerifier wraps an already-open, readable fd (e.g. one end of a
// pipe or socket) with the given HMAC key.
func NewVerifier(fd int, key []byte) *Verifier {
	return &Verifier{fd: fd, key: key}
}

// Handle implements reactor.Handler.
func (v *Verifier) Handle() int { return v.fd }

// OnReceive implements reactor.Handler: reads one frame as [payload ||
// 32-byte HMAC tag], verifies it, and signs an 8-byte ack if valid.
func (v *Verifier) OnReceive() {
	buf := make([]byte, 4096)
	n, err := fdio.Read(v.fd, buf)
	if err != nil || n < 32 {
		if v.Invalid != nil {
			v.Invalid("short read")
		}
		return
	}

	payload := buf[:n-32]
	tag := buf[n-32 : n]
	if !VerifyHMAC(v.key, payload, tag) {
		if v.Invalid != nil {
			v.Invalid("hmac mismatch")
		}
		return
	}

	ack := HMAC(v.key, payload)[:8]
	if v.Acked != nil {
		v.Acked(ack)
	}
}

// OnClose implements reactor.Handler.
func (v *Verifier) OnClose() {}

// OnError implements reactor.Handler.
func (v *Verifier) OnError(err error) {
	if v.Invalid != nil {
		v.Invalid(err.Error())
	}
}

var _ reactor.Handler = (*Verifier)(nil)
