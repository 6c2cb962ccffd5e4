package debounce

import (
	"flag"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var maxRetries = flag.Int("max-retries", 0, "Maximum number of retries")

// Due to the timing-based nature of some tests, we want to support
// automatically retrying the tests a few times to avoid flakiness.
func TestMain(m *testing.M) {
	flag.Parse()

	code := m.Run()

	for i := 0; code != 0 && i < *maxRetries; i++ {
		fmt.Fprintf(os.Stderr,
			"===\n=== WARN  Tests failed, retrying (%d/%d)...\n===\n",
			i+1, *maxRetries,
		)
		code = m.Run()
	}

	os.Exit(code)
}

type testAction struct {
	call       bool
	cancel     bool
	wantInvocs int64
}

type testCase struct {
	name    string
	wait    time.Duration
	options []Option
	actions map[int64]testAction
}

type constructor func(
	wait time.Duration,
	f func(),
	opts ...Option,
) (func(), func())

// runTestCases runs each test case against the real clock. Actions are keyed
// by their offset in milliseconds from the start of the test.
func runTestCases(t *testing.T, newFunc constructor, tests []testCase) {
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var n int64
			f := func() {
				atomic.AddInt64(&n, 1)
			}
			debouncedFunc, cancelFunc := newFunc(tt.wait, f, tt.options...)
			var lastWantInvocs int64
			var lastOffset int64

			wg := sync.WaitGroup{}
			for offset, action := range tt.actions {
				wg.Add(1)
				if offset > lastOffset && !action.call && !action.cancel {
					lastOffset = offset
					lastWantInvocs = action.wantInvocs
				}

				go func(offset int64, act testAction) {
					defer wg.Done()
					dur := time.Duration(offset) * time.Millisecond
					time.Sleep(dur)

					switch {
					case act.call:
						debouncedFunc()
					case act.cancel:
						cancelFunc()
					default:
						got := atomic.LoadInt64(&n)
						assert.Equal(t, act.wantInvocs, got, "at %s", dur)
					}
				}(offset, action)
			}
			wg.Wait()

			// Wait a bit of extra time just to try and make sure there's no
			// lingering debounce left.
			time.Sleep(tt.wait * 2)
			assert.Equal(t, lastWantInvocs, atomic.LoadInt64(&n),
				"last want invocations",
			)
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []testCase{
		{
			name: "one call, one trigger",
			wait: 200 * time.Millisecond,
			actions: map[int64]testAction{
				100: {call: true},
				250: {wantInvocs: 0},
				350: {wantInvocs: 1}, // trailing trigger at 300ms
			},
		},
		{
			name: "two calls, two triggers",
			wait: 200 * time.Millisecond,
			actions: map[int64]testAction{
				100: {call: true},
				250: {wantInvocs: 0},
				350: {wantInvocs: 1}, // trailing trigger at 300ms

				400: {call: true},
				550: {wantInvocs: 1},
				650: {wantInvocs: 2}, // trailing trigger at 600ms
			},
		},
		{
			name: "one burst of calls, one trigger",
			wait: 200 * time.Millisecond,
			actions: map[int64]testAction{
				100: {call: true},
				150: {call: true},
				200: {call: true},
				250: {call: true},
				300: {call: true},
				350: {call: true},
				400: {call: true},
				550: {wantInvocs: 0},
				650: {wantInvocs: 1}, // trailing trigger at 600ms
			},
		},
		{
			name: "one burst of calls with a cancel, one trigger",
			wait: 200 * time.Millisecond,
			actions: map[int64]testAction{
				100: {call: true},
				150: {call: true},
				200: {call: true},
				250: {call: true},
				300: {cancel: true},

				500: {call: true},
				550: {call: true},
				600: {call: true},
				750: {wantInvocs: 0},
				850: {wantInvocs: 1}, // trailing trigger at 800ms
			},
		},
		{
			name:    "burst of calls with leading, two triggers",
			wait:    200 * time.Millisecond,
			options: []Option{WithLeading(true)},
			actions: map[int64]testAction{
				100: {call: true},
				125: {wantInvocs: 1}, // leading trigger at 100ms
				150: {call: true},
				200: {call: true},
				250: {call: true},
				400: {wantInvocs: 1},
				500: {wantInvocs: 2}, // trailing trigger at 450ms
			},
		},
		{
			name:    "burst of calls with max wait, two triggers",
			wait:    200 * time.Millisecond,
			options: []Option{WithMaxWait(400 * time.Millisecond)},
			actions: map[int64]testAction{
				100: {call: true},
				200: {call: true},
				300: {call: true},
				400: {call: true},
				450: {wantInvocs: 0},
				550: {wantInvocs: 1}, // max wait trigger at 500ms
				600: {call: true},
				750: {wantInvocs: 1},
				850: {wantInvocs: 2}, // trailing trigger at 800ms
			},
		},
	}

	runTestCases(t, New, tests)
}

func TestThrottle(t *testing.T) {
	t.Parallel()

	tests := []testCase{
		{
			name: "one call, one trigger",
			wait: 200 * time.Millisecond,
			actions: map[int64]testAction{
				100: {call: true},
				150: {wantInvocs: 1}, // leading trigger at 100ms
				450: {wantInvocs: 1},
			},
		},
		{
			name: "burst of calls, one trigger per wait",
			wait: 200 * time.Millisecond,
			actions: map[int64]testAction{
				100: {call: true},
				150: {wantInvocs: 1}, // leading trigger at 100ms
				160: {call: true},
				220: {call: true},
				280: {call: true},
				350: {wantInvocs: 2}, // trailing trigger at 300ms
				360: {call: true},
				450: {wantInvocs: 2},
				600: {wantInvocs: 3}, // trailing trigger at 560ms
			},
		},
		{
			name: "burst of calls with cancel",
			wait: 200 * time.Millisecond,
			actions: map[int64]testAction{
				100: {call: true},
				150: {call: true},
				200: {cancel: true},
				450: {wantInvocs: 1},
			},
		},
	}

	runTestCases(t, Throttle, tests)
}

func TestNewWithMaxWait(t *testing.T) {
	t.Parallel()

	var n int64
	debounced, cancel := NewWithMaxWait(
		50*time.Millisecond, 150*time.Millisecond,
		func() { atomic.AddInt64(&n, 1) },
	)
	defer cancel()

	start := time.Now()
	for time.Since(start) < 400*time.Millisecond {
		debounced()
		time.Sleep(10 * time.Millisecond)
	}

	assert.GreaterOrEqual(t, atomic.LoadInt64(&n), int64(2))
}
