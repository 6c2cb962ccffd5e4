package debounce

import (
	"sync"
	"time"
)

// Value holds a value which only settles once it has stopped changing for the
// wait duration. Load returns the settled value, while Set records a new
// candidate.
type Value[T any] struct {
	mux      sync.RWMutex
	settled  T
	last     T
	equal    func(a, b T) bool
	onChange func(T)

	d *Debouncer[T, struct{}]
}

// ValueOption configures a Value.
type ValueOption[T any] func(*valueOptions[T])

type valueOptions[T any] struct {
	equal    func(a, b T) bool
	onChange func(T)
	opts     []Option
}

// WithEqual returns an option that sets the function used to compare values.
// Setting a value equal to the previous one is ignored, and a settled value
// equal to the current one does not trigger the change callback. Without it
// every Set is treated as a change.
func WithEqual[T any](equal func(a, b T) bool) ValueOption[T] {
	return func(o *valueOptions[T]) {
		o.equal = equal
	}
}

// WithOnChange returns an option that sets a function which is called with
// each newly settled value.
func WithOnChange[T any](f func(T)) ValueOption[T] {
	return func(o *valueOptions[T]) {
		o.onChange = f
	}
}

// WithDebounceOptions returns an option that passes opts to the underlying
// Debouncer, allowing leading invocation, max wait, or a custom clock.
func WithDebounceOptions[T any](opts ...Option) ValueOption[T] {
	return func(o *valueOptions[T]) {
		o.opts = append(o.opts, opts...)
	}
}

// NewValue returns a Value which starts out settled at initial.
func NewValue[T any](
	initial T,
	wait time.Duration,
	opts ...ValueOption[T],
) *Value[T] {
	var o valueOptions[T]
	for _, opt := range opts {
		opt(&o)
	}

	v := &Value[T]{
		settled:  initial,
		last:     initial,
		equal:    o.equal,
		onChange: o.onChange,
	}
	v.d = NewDebouncer(wait, v.settle, o.opts...)

	return v
}

// Set records x as the latest value. It settles once no other value has been
// set for the wait duration.
func (v *Value[T]) Set(x T) {
	v.mux.Lock()
	if v.equal != nil && v.equal(v.last, x) {
		v.mux.Unlock()

		return
	}
	v.last = x
	v.mux.Unlock()

	v.d.Invoke(x)
}

// Load returns the settled value.
func (v *Value[T]) Load() T {
	v.mux.RLock()
	defer v.mux.RUnlock()

	return v.settled
}

// Flush settles the latest value immediately.
func (v *Value[T]) Flush() {
	v.d.Flush()
}

// Cancel discards a value which has not settled yet.
func (v *Value[T]) Cancel() {
	v.d.Cancel()

	v.mux.Lock()
	v.last = v.settled
	v.mux.Unlock()
}

// Pending reports whether a value is waiting to settle.
func (v *Value[T]) Pending() bool {
	return v.d.Pending()
}

func (v *Value[T]) settle(x T) struct{} {
	v.mux.Lock()
	if v.equal != nil && v.equal(v.settled, x) {
		v.mux.Unlock()

		return struct{}{}
	}
	v.settled = x
	onChange := v.onChange
	v.mux.Unlock()

	if onChange != nil {
		onChange(x)
	}

	return struct{}{}
}
