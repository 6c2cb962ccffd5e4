package debounce

import (
	"time"

	"github.com/romdo/go-debounce/v2/internal/clock"
)

const longDelay = 24 * time.Hour

// Clock provides the current time and schedules timers. It is the only
// source of time used by a Debouncer.
type Clock = clock.Clock

// Timer is a single-shot timer created by a Clock.
type Timer = clock.Timer

// RealClock returns a Clock backed by the time package.
func RealClock() Clock {
	return clock.Real()
}

// stoppedTimer returns a stopped Timer created with c.AfterFunc. The given
// function is not called until the timer is restarted with Reset.
func stoppedTimer(c Clock, f func()) Timer {
	t := c.AfterFunc(longDelay, f)
	t.Stop()

	return t
}
