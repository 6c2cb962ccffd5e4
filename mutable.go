package debounce

import "time"

// NewMutable returns a debounced function like New, but it allows callback
// function f to be changed, as a new callback function is passed to each
// invocation of the debounced function.
//
// The returned cancel function can be used to cancel any pending invocation of
// f, but is not required to be called, so can be ignored if not needed.
//
// Only the very last f passed to the debounced function is called when the
// delay expires and the callback function is invoked. Previous f values are
// discarded. With leading invocation enabled, the f passed to the call that
// opens a window is called immediately.
//
// Both debounced and cancel functions are safe for concurrent use in
// goroutines, and can both be called multiple times.
func NewMutable(
	wait time.Duration,
	opts ...Option,
) (debounced func(f func()), cancel func()) {
	d := NewDebouncer(wait, callFunc, opts...)

	debounced = func(f func()) {
		d.Invoke(f)
	}

	return debounced, d.Cancel
}

// NewMutableWithMaxWait is a combination of NewMutable and NewWithMaxWait.
//
// When either of the wait or maxWait durations expire, the last f passed to
// the debounced function is called.
func NewMutableWithMaxWait(
	wait, maxWait time.Duration,
) (debounced func(f func()), cancel func()) {
	return NewMutable(wait, WithMaxWait(maxWait))
}

func callFunc(f func()) struct{} {
	if f != nil {
		f()
	}

	return struct{}{}
}
