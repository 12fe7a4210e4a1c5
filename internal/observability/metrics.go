package observability

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/logiscore/logiscore-backend/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/exemplar"
)

const meterName = "logiscore-backend"

type AppMetrics struct {
	authFlowCounter          metric.Int64Counter
	oauthLoginCounter        metric.Int64Counter
	emailDeliveryCounter     metric.Int64Counter
	reviewEventCounter       metric.Int64Counter
	moderationCounter        metric.Int64Counter
	searchQueryCounter       metric.Int64Counter
	searchResultCount        metric.Float64Histogram
	repositoryOpCounter      metric.Int64Counter
	dbStartupEventCounter    metric.Int64Counter
	dbStartupDuration        metric.Float64Histogram
	rateLimitDecisionCounter metric.Int64Counter
	healthCheckResultCounter metric.Int64Counter
	healthCheckDuration      metric.Float64Histogram
	logoUploadCounter        metric.Int64Counter
}

var (
	metricsMu  sync.RWMutex
	appMetrics *AppMetrics
)

func InitMetrics(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sdkmetric.MeterProvider, error) {
	if !cfg.OTELMetricsEnabled {
		mp := sdkmetric.NewMeterProvider()
		otel.SetMeterProvider(mp)
		logger.Info("otel metrics disabled")
		return mp, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTELExporterOTLPEndpoint)}
	if cfg.OTELExporterOTLPInsecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp metric exporter: %w", err)
	}

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.OTELMetricsExportInterval))
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
		sdkmetric.WithExemplarFilter(exemplar.TraceBasedFilter),
		sdkmetric.WithView(sdkmetric.NewView(
			sdkmetric.Instrument{Name: "health.check.duration"},
			sdkmetric.Stream{
				Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
					Boundaries: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
				},
			},
		)),
	)
	otel.SetMeterProvider(mp)

	meter := mp.Meter(meterName)
	authFlowCounter, err := meter.Int64Counter("auth.flow.events",
		metric.WithDescription("Password, code and reset flow outcomes"))
	if err != nil {
		return nil, err
	}
	oauthLoginCounter, err := meter.Int64Counter("auth.oauth.logins")
	if err != nil {
		return nil, err
	}
	emailDeliveryCounter, err := meter.Int64Counter("email.delivery.events")
	if err != nil {
		return nil, err
	}
	reviewEventCounter, err := meter.Int64Counter("review.events")
	if err != nil {
		return nil, err
	}
	moderationCounter, err := meter.Int64Counter("admin.moderation.decisions")
	if err != nil {
		return nil, err
	}
	searchQueryCounter, err := meter.Int64Counter("search.queries")
	if err != nil {
		return nil, err
	}
	searchResultCount, err := meter.Float64Histogram("search.result_count",
		metric.WithDescription("Number of forwarders returned per search"))
	if err != nil {
		return nil, err
	}
	repositoryOpCounter, err := meter.Int64Counter("repository.operations")
	if err != nil {
		return nil, err
	}
	dbStartupEventCounter, err := meter.Int64Counter("database.startup.events")
	if err != nil {
		return nil, err
	}
	dbStartupDuration, err := meter.Float64Histogram("database.startup.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Duration of migrate and seed steps in seconds"))
	if err != nil {
		return nil, err
	}
	rateLimitDecisionCounter, err := meter.Int64Counter("http.rate_limit.decisions")
	if err != nil {
		return nil, err
	}
	healthCheckResultCounter, err := meter.Int64Counter("health.check.results")
	if err != nil {
		return nil, err
	}
	healthCheckDuration, err := meter.Float64Histogram("health.check.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Duration of health dependency checks in seconds"))
	if err != nil {
		return nil, err
	}
	logoUploadCounter, err := meter.Int64Counter("storage.logo.uploads")
	if err != nil {
		return nil, err
	}

	metricsMu.Lock()
	appMetrics = &AppMetrics{
		authFlowCounter:          authFlowCounter,
		oauthLoginCounter:        oauthLoginCounter,
		emailDeliveryCounter:     emailDeliveryCounter,
		reviewEventCounter:       reviewEventCounter,
		moderationCounter:        moderationCounter,
		searchQueryCounter:       searchQueryCounter,
		searchResultCount:        searchResultCount,
		repositoryOpCounter:      repositoryOpCounter,
		dbStartupEventCounter:    dbStartupEventCounter,
		dbStartupDuration:        dbStartupDuration,
		rateLimitDecisionCounter: rateLimitDecisionCounter,
		healthCheckResultCounter: healthCheckResultCounter,
		healthCheckDuration:      healthCheckDuration,
		logoUploadCounter:        logoUploadCounter,
	}
	metricsMu.Unlock()

	logger.Info("otel metrics initialized", "endpoint", cfg.OTELExporterOTLPEndpoint)
	return mp, nil
}

func current() *AppMetrics {
	metricsMu.RLock()
	defer metricsMu.RUnlock()
	return appMetrics
}

// RecordAuthFlow counts signup/signin/code/reset outcomes. flow is the
// operation name, outcome one of success, failure, delivery_error.
func RecordAuthFlow(ctx context.Context, flow, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.authFlowCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("flow", flow),
		attribute.String("outcome", outcome),
	))
}

func RecordOAuthLogin(ctx context.Context, provider, status string) {
	m := current()
	if m == nil {
		return
	}
	m.oauthLoginCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("status", status),
	))
}

func RecordEmailDelivery(ctx context.Context, kind, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.emailDeliveryCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	))
}

func RecordReviewEvent(ctx context.Context, action, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.reviewEventCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	))
}

func RecordModerationDecision(ctx context.Context, entity, decision string) {
	m := current()
	if m == nil {
		return
	}
	m.moderationCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("decision", decision),
	))
}

func RecordSearchQuery(ctx context.Context, kind string, results int) {
	m := current()
	if m == nil {
		return
	}
	m.searchQueryCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
	m.searchResultCount.Record(ctx, float64(results), metric.WithAttributes(attribute.String("kind", kind)))
}

func RecordRepositoryOperation(ctx context.Context, entity, operation, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.repositoryOpCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

func RecordDatabaseStartupEvent(ctx context.Context, step, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.dbStartupEventCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("step", step),
		attribute.String("outcome", outcome),
	))
}

func RecordDatabaseStartupDuration(ctx context.Context, step string, duration time.Duration) {
	m := current()
	if m == nil {
		return
	}
	m.dbStartupDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("step", step),
	))
}

func RecordRateLimitDecision(ctx context.Context, scope, outcome, mode string) {
	m := current()
	if m == nil {
		return
	}
	m.rateLimitDecisionCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("scope", scope),
		attribute.String("outcome", outcome),
		attribute.String("mode", mode),
	))
}

func RecordHealthCheckResult(ctx context.Context, check, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.healthCheckResultCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("check", check),
		attribute.String("outcome", outcome),
	))
}

func RecordHealthCheckDuration(ctx context.Context, check string, duration time.Duration) {
	m := current()
	if m == nil {
		return
	}
	m.healthCheckDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("check", check),
	))
}

func RecordLogoUpload(ctx context.Context, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.logoUploadCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
