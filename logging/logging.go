// Package logging supplies the package-level structured logger shared by
// reactor, threadpool, timer, and cache. A package-level, swappable
// logger is appropriate here because logging is a cross-cutting
// infrastructure concern and per-instance configuration would bloat
// every call site; it is backed by zerolog.
package logging

import (
	"os"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	quiet  atomic.Bool
)

// Set replaces the package-level logger. Call once at process startup;
// safe to call concurrently with Get but not intended for hot-path use.
func Set(l zerolog.Logger) {
	mu.Lock()
	logger = l
	mu.Unlock()
}

// SetQuiet suppresses all output regardless of the configured logger's
// level, used by tests that want deterministic stderr.
func SetQuiet(v bool) {
	quiet.Store(v)
}

// Get returns the current package-level logger.
func Get() zerolog.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if quiet.Load() {
		return l.Level(zerolog.Disabled)
	}
	return l
}

// Named returns the package-level logger with a "component" field set,
// the convention every core package uses (reactor, threadpool, timer,
// cache) when emitting diagnostics.
func Named(component string) zerolog.Logger {
	return Get().With().Str("component", component).Logger()
}
