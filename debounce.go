// Package debounce provides functions to debounce and throttle function
// calls, i.e., to ensure that a function is only executed after a certain
// amount of time has passed since the last call, or at most once per interval.
//
// Debouncing can be useful in scenarios where function calls may be triggered
// rapidly, such as in response to user input, but the underlying operation is
// expensive and only needs to be performed once per batch of calls.
//
// Debouncer and Throttler wrap functions taking a single argument value and
// returning a result. New, NewWithMaxWait, NewMutable and Throttle return
// plain closures for the common case of a func().
package debounce

import "time"

// New returns a debounced function that delays invoking f until after wait time
// has elapsed since the last time the debounced function was invoked.
//
// The returned cancel function can be used to cancel any pending invocation of
// f, but is not required to be called, so can be ignored if not needed.
//
// Both debounced and cancel functions are safe for concurrent use in
// goroutines, and can both be called multiple times.
//
// Trailing invocations of f run on a timer goroutine, so f needs to be
// thread-safe if it shares state with the caller.
func New(
	wait time.Duration,
	f func(),
	opts ...Option,
) (debounced func(), cancel func()) {
	d := NewDebouncer(wait, unit(f), opts...)

	debounced = func() {
		d.Invoke(struct{}{})
	}

	return debounced, d.Cancel
}

// NewWithMaxWait returns a debounced function like New, but with a maximum wait
// time of maxWait, which is the maximum time f is allowed to be delayed before
// it is invoked.
func NewWithMaxWait(
	wait, maxWait time.Duration,
	f func(),
) (debounced func(), cancel func()) {
	return New(wait, f, WithMaxWait(maxWait))
}

// Throttle returns a throttled function that invokes f at most once per wait
// duration. The first call invokes f immediately, and further calls within
// the wait duration result in a single trailing invocation.
//
// The returned cancel function can be used to cancel any pending invocation of
// f, but is not required to be called, so can be ignored if not needed.
func Throttle(
	wait time.Duration,
	f func(),
	opts ...Option,
) (throttled func(), cancel func()) {
	t := NewThrottler(wait, unit(f), opts...)

	throttled = func() {
		t.Invoke(struct{}{})
	}

	return throttled, t.Cancel
}

func unit(f func()) func(struct{}) struct{} {
	return func(struct{}) struct{} {
		if f != nil {
			f()
		}

		return struct{}{}
	}
}
