// Package clock abstracts wall time and single-shot timers so that debouncing
// logic can be driven by a manual clock in tests.
package clock

import "time"

// Clock provides the current time and single-shot deferred execution.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a handle to a function scheduled with Clock.AfterFunc.
type Timer interface {
	// Reset re-arms the timer to fire after d. It reports whether the timer
	// was active.
	Reset(d time.Duration) bool

	// Stop prevents the timer from firing. It reports whether the timer was
	// active.
	Stop() bool
}

type realClock struct{}

// Real returns a Clock backed by the time package.
func Real() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
