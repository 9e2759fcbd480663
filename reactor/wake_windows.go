//go:build windows

package reactor

type wakeChannel struct{}

func newWakeChannel() (*wakeChannel, error) { return nil, ErrUnsupportedPlatform }
func (w *wakeChannel) fileDescriptor() int  { return -1 }
func (w *wakeChannel) post() error          { return ErrUnsupportedPlatform }
func (w *wakeChannel) drain()               {}
func (w *wakeChannel) close() error         { return nil }
