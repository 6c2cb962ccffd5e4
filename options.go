package debounce

import (
	"time"

	"github.com/rs/zerolog"
)

// Option is a function that can be used to configure a Debouncer.
type Option func(*options)

type options struct {
	Config

	clock  Clock
	logger zerolog.Logger
}

func newOptions(wait time.Duration, opts []Option) options {
	o := options{
		Config: Config{Wait: wait, Trailing: true},
		clock:  RealClock(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.Config = o.Config.normalize()

	return o
}

// WithLeading returns an option that controls whether the debounced function
// is invoked immediately on the first call of a burst.
//
// When only leading is used, a burst of calls immediately invokes the function,
// any subsequent calls will be ignored until the wait duration has passed.
func WithLeading(enabled bool) Option {
	return func(o *options) {
		o.Leading = enabled
	}
}

// WithTrailing returns an option that controls whether the debounced function
// is invoked once the wait duration has passed since the last call, with the
// arguments of that call. Trailing is enabled by default.
//
// If both leading and trailing are enabled, a burst of calls immediately
// invokes the function, followed by another invocation after the wait duration
// has passed since the last call. If only a single call is made, only one
// invocation will occur.
func WithTrailing(enabled bool) Option {
	return func(o *options) {
		o.Trailing = enabled
	}
}

// WithMaxWait returns an option that limits how long an invocation may be
// delayed, even if the debounced function is called repeatedly within the
// wait duration. Zero disables the limit.
//
// Without a max wait, the debounced function might never be invoked if it is
// called repeatedly within the wait duration.
//
// For example, if the wait duration is 100ms and the max wait duration is
// 500ms, the function will be invoked at least every 500ms, even if the
// debounced function is called non-stop every 10ms.
func WithMaxWait(maxWait time.Duration) Option {
	return func(o *options) {
		o.MaxWait = maxWait
	}
}

// WithConfig returns an option that replaces the wait, max wait, leading and
// trailing settings with the values in c.
func WithConfig(c Config) Option {
	return func(o *options) {
		o.Config = c
	}
}

// WithClock returns an option that sets the clock used to read the current
// time and to schedule timers. Defaults to RealClock.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLogger returns an option that sets a logger which receives debug level
// events for every flush, re-armed timer and cancellation.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
