package joinsync

import "runtime"

// goroutineID extracts the numeric id from the header line runtime.Stack
// always emits for the calling goroutine ("goroutine N [running]: ..."),
// the same technique errkind uses for its per-goroutine error slots.
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
