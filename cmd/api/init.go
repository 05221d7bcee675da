package main

import (
	"context"
	"errors"

	"deskcalc/internal/calculator"
	"deskcalc/internal/config"
	"deskcalc/internal/observability"
)

// initTelemetry starts the enabled OTLP pipelines and the calculator's metric
// instruments. The returned function shuts the pipelines down in reverse
// order.
func initTelemetry(ctx context.Context, cfg config.TelemetryConfig) (func(context.Context) error, error) {
	var shutdowns []func(context.Context) error

	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	start := func(enabled bool, init func(context.Context) (func(context.Context) error, error)) error {
		if !enabled {
			return nil
		}
		fn, err := init(ctx)
		if err != nil {
			return err
		}
		shutdowns = append(shutdowns, fn)
		return nil
	}

	if err := errors.Join(
		start(cfg.Traces, observability.InitTracing),
		start(cfg.Metrics, observability.InitMetrics),
		start(cfg.Logs, observability.InitLogging),
	); err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	if err := calculator.InitMetrics(); err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	return shutdown, nil
}
