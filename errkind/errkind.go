// Package errkind implements the process-wide error taxonomy and the
// per-goroutine "last error" diagnostic cell used throughout libjoin.
//
// Go has no native thread-local storage, and a goroutine is not a thread,
// but the library's C-style contract ("return -1 / nil / false and consult
// the last error") still needs a per-caller slot. We key that slot by
// goroutine id, extracted from the runtime stack trace.
package errkind

import (
	"runtime"
	"sync"
)

// Kind enumerates the library's error taxonomy.
type Kind int

const (
	UnknownError Kind = iota
	InUse
	InvalidParam
	ConnectionRefused
	ConnectionClosed
	TimedOut
	PermissionDenied
	OutOfMemory
	OperationFailed
	NotFound
	MessageUnknown
	MessageTooLong
	TemporaryError
)

func (k Kind) String() string {
	switch k {
	case InUse:
		return "in-use"
	case InvalidParam:
		return "invalid-param"
	case ConnectionRefused:
		return "connection-refused"
	case ConnectionClosed:
		return "connection-closed"
	case TimedOut:
		return "timed-out"
	case PermissionDenied:
		return "permission-denied"
	case OutOfMemory:
		return "out-of-memory"
	case OperationFailed:
		return "operation-failed"
	case NotFound:
		return "not-found"
	case MessageUnknown:
		return "message-unknown"
	case MessageTooLong:
		return "message-too-long"
	case TemporaryError:
		return "temporary-error"
	default:
		return "unknown-error"
	}
}

// Error pairs a Kind with the underlying cause, satisfying the standard
// error interface so it composes with errors.Is / errors.As.
type Error struct {
	Kind  Kind
	Cause error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error for the given kind and cause (cause may be nil).
func New(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

var (
	slotsMu sync.RWMutex
	slots   = map[uint64]*Error{}
)

// Set records the last error for the calling goroutine. It is the
// non-fallible counterpart of every primitive in this module that returns
// -1/nil/false on failure.
func Set(kind Kind, cause error) {
	id := goroutineID()
	slotsMu.Lock()
	slots[id] = New(kind, cause)
	slotsMu.Unlock()
}

// Last returns the last error recorded for the calling goroutine, or nil
// if the slot is clear.
func Last() *Error {
	id := goroutineID()
	slotsMu.RLock()
	defer slotsMu.RUnlock()
	return slots[id]
}

// Clear empties the calling goroutine's slot. Every public entry point
// that succeeds should call this first, so a stale error never outlives
// the call that produced it.
func Clear() {
	id := goroutineID()
	slotsMu.Lock()
	delete(slots, id)
	slotsMu.Unlock()
}

// goroutineID extracts the numeric id from "goroutine N [running]: ...",
// the header line runtime.Stack always emits for the calling goroutine.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	i := len("goroutine ")
	for ; i < n; i++ {
		c := buf[i]
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + uint64(c-'0')
	}
	return id
}
