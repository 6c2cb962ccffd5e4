package clock

import (
	"slices"
	"sync"
	"time"
)

// Fake is a manually advanced Clock. Timers only fire from Advance, on the
// goroutine calling it, in deadline order.
//
// Only armed timers are tracked, so stopped or fired timers cost nothing
// until they are reset.
type Fake struct {
	mux    sync.Mutex
	now    time.Time
	seq    uint64
	timers []*fakeTimer // armed
}

var _ Clock = (*Fake)(nil)

// NewFake returns a Fake clock set to start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the current fake time.
func (c *Fake) Now() time.Time {
	c.mux.Lock()
	defer c.mux.Unlock()

	return c.now
}

// AfterFunc schedules f to run once the fake time has advanced by d.
func (c *Fake) AfterFunc(d time.Duration, f func()) Timer {
	c.mux.Lock()
	defer c.mux.Unlock()

	t := &fakeTimer{clock: c, f: f}
	c.arm(t, d)

	return t
}

// Advance moves the clock forward by d, firing every timer whose deadline is
// reached. Timers armed by fired functions also fire if they fall due before
// the new time.
func (c *Fake) Advance(d time.Duration) {
	c.mux.Lock()
	target := c.now.Add(d)
	c.mux.Unlock()

	for {
		c.mux.Lock()
		next := c.next(target)
		if next == nil {
			if target.After(c.now) {
				c.now = target
			}
			c.mux.Unlock()

			return
		}

		if next.when.After(c.now) {
			c.now = next.when
		}
		c.disarm(next)
		f := next.f
		c.mux.Unlock()

		f()
	}
}

// Active returns the number of armed timers.
func (c *Fake) Active() int {
	c.mux.Lock()
	defer c.mux.Unlock()

	return len(c.timers)
}

// next returns the earliest armed timer due at or before target. Timers with
// the same deadline fire in the order they were armed. It must be called
// with the mutex held.
func (c *Fake) next(target time.Time) *fakeTimer {
	var next *fakeTimer
	for _, t := range c.timers {
		if t.when.After(target) {
			continue
		}
		if next == nil || t.when.Before(next.when) ||
			(t.when.Equal(next.when) && t.seq < next.seq) {
			next = t
		}
	}

	return next
}

// arm must be called with the mutex held.
func (c *Fake) arm(t *fakeTimer, d time.Duration) {
	if d < 0 {
		d = 0
	}
	if !t.active {
		c.timers = append(c.timers, t)
	}
	c.seq++
	t.seq = c.seq
	t.when = c.now.Add(d)
	t.active = true
}

// disarm must be called with the mutex held.
func (c *Fake) disarm(t *fakeTimer) {
	if !t.active {
		return
	}
	t.active = false
	c.timers = slices.DeleteFunc(c.timers, func(x *fakeTimer) bool {
		return x == t
	})
}

type fakeTimer struct {
	clock  *Fake
	f      func()
	when   time.Time
	seq    uint64
	active bool
}

func (t *fakeTimer) Reset(d time.Duration) bool {
	t.clock.mux.Lock()
	defer t.clock.mux.Unlock()

	wasActive := t.active
	t.clock.arm(t, d)

	return wasActive
}

func (t *fakeTimer) Stop() bool {
	t.clock.mux.Lock()
	defer t.clock.mux.Unlock()

	wasActive := t.active
	t.clock.disarm(t)

	return wasActive
}
