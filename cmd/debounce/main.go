// Command debounce copies lines from stdin to stdout, debouncing or
// throttling them.
//
//	tail -f app.log | debounce --wait 500ms
//	inotifywait -m . | debounce --mode throttle --wait 2s
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/romdo/go-debounce/v2"
	"github.com/romdo/go-debounce/v2/internal/config"
	"github.com/romdo/go-debounce/v2/internal/linefilter"
	"github.com/romdo/go-debounce/v2/internal/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "debounce: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load("debounce", args)
	if config.IsHelp(err) {
		return nil
	}
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	filterCfg := cfg.Filter()
	f, err := linefilter.New(filterCfg, os.Stdout, log,
		debounce.WithLogger(log.With().Str("component", "debouncer").Logger()),
	)
	if err != nil {
		return err
	}

	log.Info().
		Str("mode", string(filterCfg.Mode)).
		Dur("wait", filterCfg.Debounce.Wait).
		Dur("max_wait", filterCfg.Debounce.MaxWait).
		Bool("leading", filterCfg.Debounce.Leading).
		Bool("trailing", filterCfg.Debounce.Trailing).
		Int("max_line_size", filterCfg.MaxLineSize).
		Msg("filtering stdin")

	err = f.Run(ctx, os.Stdin)
	if errors.Is(err, context.Canceled) {
		log.Info().Msg("interrupted")

		return nil
	}

	return err
}
