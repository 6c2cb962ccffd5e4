package debounce

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Debouncer wraps a function so that calls within the wait duration of each
// other collapse into a single invocation, made on the leading edge, the
// trailing edge, or both. A max wait bounds how long an invocation can be
// deferred by a continuous stream of calls.
//
// All methods are safe for concurrent use. The wrapped function is invoked
// without any internal lock held, either on the goroutine calling Invoke or
// Flush, or on the goroutine of an expired timer. It may call back into the
// Debouncer. A panic in the wrapped function propagates to whichever of these
// triggered it, after the pending arguments have been consumed.
type Debouncer[A, R any] struct {
	// Configuration
	fn     func(A) R
	conf   Config
	clock  Clock
	logger zerolog.Logger

	// State
	mux        sync.Mutex
	args       A
	hasArgs    bool
	lastCall   time.Time
	lastFlush  time.Time
	result     R
	hasResult  bool
	timer      Timer
	timerArmed bool
}

// NewDebouncer creates a new Debouncer which invokes fn according to the
// given wait duration and options. By default only trailing invocation is
// enabled and there is no max wait.
func NewDebouncer[A, R any](
	wait time.Duration,
	fn func(A) R,
	opts ...Option,
) *Debouncer[A, R] {
	o := newOptions(wait, opts)

	d := &Debouncer[A, R]{
		fn:     fn,
		conf:   o.Config,
		clock:  o.clock,
		logger: o.logger,
	}
	d.timer = stoppedTimer(d.clock, d.expire)

	return d
}

// Config returns the normalized configuration of the Debouncer.
func (d *Debouncer[A, R]) Config() Config {
	return d.conf
}

// Invoke records args as the pending arguments and, depending on the
// configuration, invokes the wrapped function immediately or schedules it.
//
// It returns the result of the most recent invocation, including one made
// during this call, and false if the function has never been invoked.
func (d *Debouncer[A, R]) Invoke(args A) (R, bool) {
	d.mux.Lock()

	now := d.clock.Now()
	flushable := d.canFlush(now)

	d.args, d.hasArgs = args, true
	d.lastCall = now

	var call A
	var ok bool

	if flushable {
		if !d.timerArmed {
			// First call of a new window, which also starts the max wait
			// clock.
			d.lastFlush = now
			if d.conf.Leading {
				call, ok = d.take(now)
				d.logger.Debug().Msg("leading flush")
			}
		} else if d.conf.MaxWait > 0 {
			d.disarm()
			call, ok = d.take(now)
			d.logger.Debug().
				Dur("max_wait", d.conf.MaxWait).
				Msg("max wait flush")
		}
	}

	if !d.timerArmed {
		d.arm(d.conf.Wait)
	}

	d.mux.Unlock()

	if ok {
		d.apply(call)
	}

	return d.Result()
}

// Flush immediately invokes the wrapped function with the pending arguments,
// if there are any and trailing invocation is enabled, and stops the pending
// timer. Otherwise pending arguments are discarded.
func (d *Debouncer[A, R]) Flush() {
	d.mux.Lock()

	if d.timerArmed {
		d.disarm()
	}
	call, ok := d.trailing(d.clock.Now())

	d.mux.Unlock()

	if ok {
		d.logger.Debug().Msg("explicit flush")
		d.apply(call)
	}
}

// Cancel discards pending arguments, stops the pending timer, and resets the
// Debouncer so that the next call starts a new window.
func (d *Debouncer[A, R]) Cancel() {
	d.mux.Lock()
	defer d.mux.Unlock()

	if d.timerArmed {
		d.disarm()
		d.logger.Debug().Msg("cancel")
	}

	d.discard()
	d.lastCall = time.Time{}
	d.lastFlush = time.Time{}
}

// Pending reports whether a timer is armed.
func (d *Debouncer[A, R]) Pending() bool {
	d.mux.Lock()
	defer d.mux.Unlock()

	return d.timerArmed
}

// Result returns the result of the most recent invocation of the wrapped
// function, and false if it has never been invoked.
func (d *Debouncer[A, R]) Result() (R, bool) {
	d.mux.Lock()
	defer d.mux.Unlock()

	return d.result, d.hasResult
}

// expire is called when the timer fires.
func (d *Debouncer[A, R]) expire() {
	d.mux.Lock()

	// Stop lost the race against a timer that already fired.
	if !d.timerArmed {
		d.mux.Unlock()

		return
	}

	now := d.clock.Now()
	if !d.canFlush(now) {
		remaining := d.remaining(now)
		d.timer.Reset(remaining)
		d.logger.Debug().Dur("remaining", remaining).Msg("timer re-armed")
		d.mux.Unlock()

		return
	}

	d.timerArmed = false
	call, ok := d.trailing(now)

	d.mux.Unlock()

	if ok {
		d.logger.Debug().Msg("trailing flush")
		d.apply(call)
	}
}

// canFlush reports whether the wait, or max wait, has passed at now. It must
// be called with the mutex held.
func (d *Debouncer[A, R]) canFlush(now time.Time) bool {
	if d.lastCall.IsZero() || now.Before(d.lastCall) {
		return true
	}

	return d.remaining(now) <= 0
}

// remaining returns the time left until the wait, or max wait, has passed. It
// must be called with the mutex held.
func (d *Debouncer[A, R]) remaining(now time.Time) time.Duration {
	remaining := d.conf.Wait - now.Sub(d.lastCall)

	if d.conf.MaxWait > 0 {
		maxRemaining := d.conf.MaxWait - now.Sub(d.lastFlush)
		if maxRemaining < remaining {
			remaining = maxRemaining
		}
	}

	return remaining
}

// trailing consumes the pending arguments for a trailing edge invocation, or
// discards them if trailing invocation is disabled. It must be called with the
// mutex held.
func (d *Debouncer[A, R]) trailing(now time.Time) (A, bool) {
	if d.conf.Trailing && d.hasArgs {
		return d.take(now)
	}
	d.discard()

	var zero A

	return zero, false
}

// take consumes the pending arguments and marks now as the last flush time.
// It must be called with the mutex held.
func (d *Debouncer[A, R]) take(now time.Time) (A, bool) {
	args, ok := d.args, d.hasArgs
	d.discard()
	d.lastFlush = now

	return args, ok
}

// discard must be called with the mutex held.
func (d *Debouncer[A, R]) discard() {
	var zero A
	d.args, d.hasArgs = zero, false
}

// arm must be called with the mutex held.
func (d *Debouncer[A, R]) arm(wait time.Duration) {
	d.timer.Reset(wait)
	d.timerArmed = true
}

// disarm must be called with the mutex held.
func (d *Debouncer[A, R]) disarm() {
	d.timer.Stop()
	d.timerArmed = false
}

// apply invokes the wrapped function and records its result. It must be
// called without the mutex held.
func (d *Debouncer[A, R]) apply(args A) {
	if d.fn == nil {
		return
	}

	result := d.fn(args)

	d.mux.Lock()
	d.result, d.hasResult = result, true
	d.mux.Unlock()
}
