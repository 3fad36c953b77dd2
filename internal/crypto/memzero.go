package crypto

import "runtime"

// Wipe zeroes each provided buffer in place. This is best-effort: copies the
// runtime or other code made of the bytes are not reached.
//
//go:noinline
func Wipe(bufs ...[]byte) {
	for _, b := range bufs {
		clear(b)
		// Ensure b is considered live until after the clear.
		runtime.KeepAlive(b)
	}
}
