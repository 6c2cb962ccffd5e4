// Package linefilter debounces or throttles a stream of text lines.
package linefilter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/romdo/go-debounce/v2"
)

// Mode selects how lines are filtered.
type Mode string

const (
	ModeDebounce Mode = "debounce"
	ModeThrottle Mode = "throttle"
)

// DefaultMaxLineSize is the longest line read when Config.MaxLineSize is 0.
const DefaultMaxLineSize = 1024 * 1024

var (
	ErrUnknownMode      = errors.New("unknown mode")
	ErrNegativeLineSize = errors.New("max line size must not be negative")
)

// ParseMode parses a mode name, ignoring case.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(s)); m {
	case ModeDebounce, ModeThrottle:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Config configures a Filter.
type Config struct {
	Mode       Mode
	Debounce   debounce.Config
	FlushOnEOF bool

	// MaxLineSize bounds the length in bytes of a line read by Run,
	// including its line ending. Zero means DefaultMaxLineSize.
	MaxLineSize int
}

func (c Config) maxLineSize() int {
	if c.MaxLineSize == 0 {
		return DefaultMaxLineSize
	}

	return c.MaxLineSize
}

type invoker interface {
	Invoke(line string) (struct{}, bool)
	Flush()
	Cancel()
}

// Filter writes a subset of the lines fed to it to an output writer. Each fed
// line is an invocation of a debounced or throttled function which writes
// the line.
type Filter struct {
	cfg Config
	log zerolog.Logger
	inv invoker

	mux      sync.Mutex
	out      io.Writer
	writeErr error

	linesIn  int64
	linesOut int64
}

// New returns a Filter writing to out. Additional options are passed to the
// underlying debouncer.
func New(
	cfg Config,
	out io.Writer,
	log zerolog.Logger,
	opts ...debounce.Option,
) (*Filter, error) {
	if err := cfg.Debounce.Validate(); err != nil {
		return nil, err
	}
	if cfg.MaxLineSize < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeLineSize, cfg.MaxLineSize)
	}

	f := &Filter{cfg: cfg, out: out, log: log}
	opts = append(cfg.Debounce.Options(), opts...)

	switch cfg.Mode {
	case ModeDebounce:
		f.inv = debounce.NewDebouncer(cfg.Debounce.Wait, f.write, opts...)
	case ModeThrottle:
		// Leading and trailing come from cfg, overriding the throttle
		// defaults.
		f.inv = debounce.NewThrottler(cfg.Debounce.Wait, f.write, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, cfg.Mode)
	}

	return f, nil
}

// Feed records a line. It returns the error of the most recent write, if it
// failed.
func (f *Filter) Feed(line string) error {
	atomic.AddInt64(&f.linesIn, 1)
	f.inv.Invoke(line)

	return f.err()
}

// Close writes the pending line if FlushOnEOF is set, and discards it
// otherwise. It returns the error of the most recent write.
func (f *Filter) Close() error {
	if f.cfg.FlushOnEOF {
		f.inv.Flush()
	} else {
		f.inv.Cancel()
	}

	f.log.Debug().
		Int64("lines_in", atomic.LoadInt64(&f.linesIn)).
		Int64("lines_out", atomic.LoadInt64(&f.linesOut)).
		Msg("filter closed")

	return f.err()
}

// Abort discards the pending line.
func (f *Filter) Abort() {
	f.inv.Cancel()
}

// Stats returns the number of lines fed to and written by the Filter.
func (f *Filter) Stats() (in, out int64) {
	return atomic.LoadInt64(&f.linesIn), atomic.LoadInt64(&f.linesOut)
}

// Run feeds every line read from r until EOF, and then closes the Filter. A
// read error, such as a line longer than the max line size, also closes the
// Filter before it is returned. If ctx is done first, the pending line is
// discarded and ctx.Err() returned.
func (f *Filter) Run(ctx context.Context, r io.Reader) error {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)

		size := f.cfg.maxLineSize()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, min(size, bufio.MaxScanTokenSize)), size)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			f.Abort()

			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return f.finish(ctx, errc)
			}
			if err := f.Feed(line); err != nil {
				f.Abort()

				return fmt.Errorf("write: %w", err)
			}
		}
	}
}

func (f *Filter) finish(ctx context.Context, errc <-chan error) error {
	select {
	case err := <-errc:
		if err != nil {
			f.log.Warn().Err(err).Msg("read failed")
			readErr := fmt.Errorf("read: %w", err)
			if werr := f.Close(); werr != nil {
				return errors.Join(readErr, fmt.Errorf("write: %w", werr))
			}

			return readErr
		}
	default:
		// The reader stopped because ctx is done.
		f.Abort()

		return ctx.Err()
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	return nil
}

// err returns the error of the most recent write.
func (f *Filter) err() error {
	f.mux.Lock()
	defer f.mux.Unlock()

	return f.writeErr
}

func (f *Filter) write(line string) struct{} {
	f.mux.Lock()
	defer f.mux.Unlock()

	_, f.writeErr = fmt.Fprintln(f.out, line)
	if f.writeErr != nil {
		f.log.Error().Err(f.writeErr).Msg("write failed")

		return struct{}{}
	}
	atomic.AddInt64(&f.linesOut, 1)

	return struct{}{}
}
