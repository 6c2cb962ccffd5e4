package debounce

import "time"

// Throttler invokes a function at most once per wait duration, no matter how
// often it is called. It is a Debouncer whose max wait equals its wait, with
// leading and trailing invocation enabled by default.
type Throttler[A, R any] struct {
	*Debouncer[A, R]
}

// NewThrottler creates a new Throttler which invokes fn at most once per wait
// duration. The first call after an idle period invokes fn immediately, and
// the arguments of the last call within a wait duration are used for a
// trailing invocation. Use WithLeading(false) or WithTrailing(false) to
// disable either edge. WithMaxWait has no effect.
func NewThrottler[A, R any](
	wait time.Duration,
	fn func(A) R,
	opts ...Option,
) *Throttler[A, R] {
	all := make([]Option, 0, len(opts)+3)
	all = append(all, WithLeading(true), WithTrailing(true))
	all = append(all, opts...)
	all = append(all, func(o *options) {
		o.MaxWait = o.Wait
	})

	return &Throttler[A, R]{Debouncer: NewDebouncer(wait, fn, all...)}
}
