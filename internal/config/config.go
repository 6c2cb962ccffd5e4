// Package config loads the configuration of the debounce command from flags,
// environment variables, an optional .env file and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/romdo/go-debounce/v2"
	"github.com/romdo/go-debounce/v2/internal/linefilter"
	"github.com/romdo/go-debounce/v2/internal/logger"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "DEBOUNCE"

// Config is the configuration of the debounce command.
type Config struct {
	Mode        string          `mapstructure:"mode" yaml:"mode"`
	Debounce    debounce.Config `mapstructure:",squash" yaml:",inline"`
	FlushOnEOF  bool            `mapstructure:"flush_on_eof" yaml:"flush_on_eof"`
	MaxLineSize int             `mapstructure:"max_line_size" yaml:"max_line_size"`
	Log         logger.Config   `mapstructure:"log" yaml:"log"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := linefilter.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("mode: %w", err)
	}
	if err := c.Debounce.Validate(); err != nil {
		return err
	}
	if c.MaxLineSize < 0 {
		return fmt.Errorf("max_line_size: %w", linefilter.ErrNegativeLineSize)
	}

	return c.Log.Validate()
}

// Filter returns the line filter configuration. It must only be called on a
// validated Config.
func (c *Config) Filter() linefilter.Config {
	mode, _ := linefilter.ParseMode(c.Mode)

	return linefilter.Config{
		Mode:        mode,
		Debounce:    c.Debounce,
		FlushOnEOF:  c.FlushOnEOF,
		MaxLineSize: c.MaxLineSize,
	}
}

// flag names mapped to their configuration keys.
var flagKeys = map[string]string{
	"mode":          "mode",
	"wait":          "wait",
	"max-wait":      "max_wait",
	"leading":       "leading",
	"trailing":      "trailing",
	"flush-on-eof":  "flush_on_eof",
	"max-line-size": "max_line_size",
	"config":        "config",
	"env-file":      "env_file",
	"log-level":     "log.level",
	"log-format":    "log.format",
	"log-no-color":  "log.no_color",
}

// NewFlagSet returns the flag set parsed by Load.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)

	fs.StringP("mode", "m", string(linefilter.ModeDebounce),
		"filter mode: debounce or throttle")
	fs.DurationP("wait", "w", time.Second,
		"idle time after the last line before it is written")
	fs.Duration("max-wait", 0,
		"longest a line may be held back, 0 disables")
	fs.Bool("leading", false,
		"write the first line of a burst immediately (default true in throttle mode)")
	fs.Bool("trailing", true,
		"write the last line of a burst once the wait has passed")
	fs.Bool("flush-on-eof", true,
		"write the pending line when input ends")
	fs.Int("max-line-size", linefilter.DefaultMaxLineSize,
		"longest accepted input line in bytes")
	fs.StringP("config", "c", "", "path to a YAML config file")
	fs.String("env-file", "", "path to a .env file")
	fs.String("log-level", "warn", "log level")
	fs.String("log-format", logger.FormatConsole, "log format: console or json")
	fs.Bool("log-no-color", false, "disable colored console logs")

	return fs
}

// Load parses args and returns the resulting configuration. Values are taken,
// in order of precedence, from flags, DEBOUNCE_* environment variables (which
// may be set by the .env file), the config file, and flag defaults. The paths
// of the .env and config files may themselves come from DEBOUNCE_ENV_FILE and
// DEBOUNCE_CONFIG. It returns pflag.ErrHelp if help was requested.
func Load(name string, args []string) (*Config, error) {
	fs := NewFlagSet(name)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}

	if envFile := v.GetString("env_file"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf(
				"failed to read config file %s: %w", configFile, err,
			)
		}
	}

	// Throttling writes the first line of a burst unless told otherwise.
	if strings.EqualFold(v.GetString("mode"), string(linefilter.ModeThrottle)) {
		v.SetDefault("leading", true)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Log.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// IsHelp reports whether err is the result of a help flag.
func IsHelp(err error) bool {
	return errors.Is(err, pflag.ErrHelp)
}
