package observability

import (
	"context"
	"errors"
	"log/slog"

	"github.com/logiscore/logiscore-backend/internal/config"

	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Runtime owns the three OTel SDK providers for the process lifetime.
type Runtime struct {
	LoggerProvider *sdklog.LoggerProvider
	MeterProvider  *sdkmetric.MeterProvider
	TracerProvider *sdktrace.TracerProvider
}

// InitRuntime brings up logs, metrics, and tracing in that order. A
// failure part way through shuts down whatever already started so no
// exporter goroutines leak.
func InitRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	rt := &Runtime{}

	var err error
	if rt.LoggerProvider, err = InitLogs(ctx, cfg, logger); err != nil {
		return nil, err
	}
	if rt.MeterProvider, err = InitMetrics(ctx, cfg, logger); err != nil {
		_ = rt.Shutdown(ctx)
		return nil, err
	}
	if rt.TracerProvider, err = InitTracing(ctx, cfg, logger); err != nil {
		_ = rt.Shutdown(ctx)
		return nil, err
	}
	return rt, nil
}

// Shutdown flushes and stops every provider that was started,
// collecting errors rather than stopping at the first one.
func (r *Runtime) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}
	var errs []error
	shutdown := func(name string, fn func(context.Context) error) {
		if fn == nil {
			return
		}
		if err := fn(ctx); err != nil {
			errs = append(errs, errors.New(name+" shutdown: "+err.Error()))
		}
	}
	if r.LoggerProvider != nil {
		shutdown("logs", r.LoggerProvider.Shutdown)
	}
	if r.MeterProvider != nil {
		shutdown("metrics", r.MeterProvider.Shutdown)
	}
	if r.TracerProvider != nil {
		shutdown("tracing", r.TracerProvider.Shutdown)
	}
	return errors.Join(errs...)
}
