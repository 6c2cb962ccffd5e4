package debounce

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNegativeWait    = errors.New("wait must not be negative")
	ErrNegativeMaxWait = errors.New("max wait must not be negative")
	ErrMaxWaitTooShort = errors.New("max wait must not be shorter than wait")
)

// Config holds the settings of a Debouncer. The zero value debounces with no
// wait on the trailing edge only.
type Config struct {
	// Wait is the idle time after the last call before a trailing invocation.
	Wait time.Duration `mapstructure:"wait" yaml:"wait"`

	// MaxWait is the longest an invocation may be delayed. Zero disables it.
	MaxWait time.Duration `mapstructure:"max_wait" yaml:"max_wait"`

	Leading  bool `mapstructure:"leading" yaml:"leading"`
	Trailing bool `mapstructure:"trailing" yaml:"trailing"`
}

// DefaultConfig returns a Config for the given wait with trailing invocation
// enabled.
func DefaultConfig(wait time.Duration) Config {
	return Config{Wait: wait, Trailing: true}
}

// Validate reports settings that New and NewDebouncer would silently adjust.
func (c Config) Validate() error {
	if c.Wait < 0 {
		return fmt.Errorf("%w: %s", ErrNegativeWait, c.Wait)
	}
	if c.MaxWait < 0 {
		return fmt.Errorf("%w: %s", ErrNegativeMaxWait, c.MaxWait)
	}
	if c.MaxWait > 0 && c.MaxWait < c.Wait {
		return fmt.Errorf(
			"%w: max wait %s, wait %s", ErrMaxWaitTooShort, c.MaxWait, c.Wait,
		)
	}

	return nil
}

// Options returns c as a list of options.
func (c Config) Options() []Option {
	return []Option{WithConfig(c)}
}

// normalize clamps negative durations to zero and raises an enabled MaxWait
// to at least Wait.
func (c Config) normalize() Config {
	if c.Wait < 0 {
		c.Wait = 0
	}
	if c.MaxWait < 0 {
		c.MaxWait = 0
	}
	if c.MaxWait > 0 && c.MaxWait < c.Wait {
		c.MaxWait = c.Wait
	}

	return c
}
