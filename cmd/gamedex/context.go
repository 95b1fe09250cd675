package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"gamedex/internal/config"
	"gamedex/internal/logging"
	"gamedex/internal/metrics"
	"gamedex/internal/pipeline"
	"gamedex/internal/tracing"
)

// appContext carries lazily initialized state shared by all commands.
type appContext struct {
	configFlag  string
	metricsFlag bool

	cfg             *config.Config
	pipe            *pipeline.Pipeline
	tracingShutdown func(context.Context) error
}

func newAppContext() *appContext {
	return &appContext{}
}

// setup loads config and wires logging and tracing. Called from the
// root command's PersistentPreRunE so every subcommand sees the same
// state.
func (a *appContext) setup(ctx context.Context) error {
	if a.cfg != nil {
		return nil
	}

	var err error
	if a.configFlag != "" {
		a.cfg, err = config.LoadFrom(a.configFlag)
		if err != nil {
			return err
		}
	} else {
		a.cfg, err = config.Load()
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
			a.cfg = config.DefaultConfig()
		}
	}

	logging.Setup(a.cfg.Logging)

	shutdown, err := tracing.Setup(ctx, tracing.DefaultConfig())
	if err != nil {
		logging.Error("failed to setup tracing", "error", err)
	} else {
		a.tracingShutdown = shutdown
	}

	a.pipe = pipeline.New(a.cfg)
	return nil
}

// reportMetrics dumps the run's counters in the Prometheus text format
// when --metrics was given. w is the command's stderr so the snapshot
// JSON on stdout stays clean.
func (a *appContext) reportMetrics(w io.Writer) {
	if !a.metricsFlag {
		return
	}
	if err := metrics.WriteTo(w); err != nil {
		logging.Warn("failed to write metrics", "error", err)
	}
}

func (a *appContext) shutdown() {
	if a.tracingShutdown != nil {
		if err := a.tracingShutdown(context.Background()); err != nil {
			logging.Error("failed to shutdown tracing", "error", err)
		}
	}
}
