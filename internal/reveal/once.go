package reveal

import "sync/atomic"

// Once wraps fn so that only the first call runs it.
func Once(fn func()) func() {
	var done atomic.Bool
	return func() {
		if !done.CompareAndSwap(false, true) {
			return
		}
		fn()
	}
}

// OnceWith is Once for cleanup routines that take an argument. The first
// caller's argument wins; later calls are no-ops whatever they pass.
func OnceWith[A any](fn func(A)) func(A) {
	var done atomic.Bool
	return func(arg A) {
		if !done.CompareAndSwap(false, true) {
			return
		}
		fn(arg)
	}
}
