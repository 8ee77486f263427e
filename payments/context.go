package payments

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/blackghost1987/payment-engine/payments/assert"
	constant "github.com/blackghost1987/payment-engine/payments/constants"
	"github.com/blackghost1987/payment-engine/payments/log"
	"github.com/blackghost1987/payment-engine/payments/opentelemetry/metrics"
)

type customContextKey string

// CustomContextKey is the context key used to store CustomContextKeyValue.
var CustomContextKey = customContextKey("custom_context")

// CustomContextKeyValue holds the run-scoped facilities attached to a context.
type CustomContextKeyValue struct {
	RunID         string
	Tracer        trace.Tracer
	Logger        log.Logger
	MetricFactory *metrics.MetricsFactory
}

func valuesFrom(ctx context.Context) *CustomContextKeyValue {
	values, _ := ctx.Value(CustomContextKey).(*CustomContextKeyValue)
	if values == nil {
		return &CustomContextKeyValue{}
	}

	clone := *values

	return &clone
}

// NewLoggerFromContext returns the logger stored in ctx, or a no-op logger.
//
//nolint:ireturn
func NewLoggerFromContext(ctx context.Context) log.Logger {
	if values, ok := ctx.Value(CustomContextKey).(*CustomContextKeyValue); ok && values.Logger != nil {
		return values.Logger
	}

	return &log.NopLogger{}
}

// ContextWithLogger returns a copy of ctx carrying logger.
func ContextWithLogger(ctx context.Context, logger log.Logger) context.Context {
	values := valuesFrom(ctx)
	values.Logger = logger

	return context.WithValue(ctx, CustomContextKey, values)
}

// ContextWithTracer returns a copy of ctx carrying tracer.
func ContextWithTracer(ctx context.Context, tracer trace.Tracer) context.Context {
	values := valuesFrom(ctx)
	values.Tracer = tracer

	return context.WithValue(ctx, CustomContextKey, values)
}

// ContextWithMetricFactory returns a copy of ctx carrying metricFactory.
func ContextWithMetricFactory(ctx context.Context, metricFactory *metrics.MetricsFactory) context.Context {
	values := valuesFrom(ctx)
	values.MetricFactory = metricFactory

	return context.WithValue(ctx, CustomContextKey, values)
}

// ContextWithRunID returns a copy of ctx carrying the correlation id of a run.
func ContextWithRunID(ctx context.Context, runID string) context.Context {
	values := valuesFrom(ctx)
	values.RunID = runID

	return context.WithValue(ctx, CustomContextKey, values)
}

// TrackingComponents is the telemetry bundle extracted from a context.
type TrackingComponents struct {
	Logger        log.Logger
	Tracer        trace.Tracer
	RunID         string
	MetricFactory *metrics.MetricsFactory
}

// NewTrackingFromContext extracts the tracking components from ctx. Missing
// components are replaced by a no-op logger, the global tracer, a fresh UUID
// run id and a factory on the global meter provider.
//
//nolint:ireturn
func NewTrackingFromContext(ctx context.Context) (log.Logger, trace.Tracer, string, *metrics.MetricsFactory) {
	components := extractTrackingComponents(ctx)
	return components.Logger, components.Tracer, components.RunID, components.MetricFactory
}

func extractTrackingComponents(ctx context.Context) TrackingComponents {
	values, ok := ctx.Value(CustomContextKey).(*CustomContextKeyValue)
	if !ok || values == nil {
		values = &CustomContextKeyValue{}
	}

	return TrackingComponents{
		Logger:        resolveLogger(values.Logger),
		Tracer:        resolveTracer(values.Tracer),
		RunID:         resolveRunID(values.RunID),
		MetricFactory: resolveMetricFactory(values.MetricFactory),
	}
}

func resolveLogger(logger log.Logger) log.Logger {
	if logger != nil {
		return logger
	}

	return &log.NopLogger{}
}

func resolveTracer(tracer trace.Tracer) trace.Tracer {
	if tracer != nil {
		return tracer
	}

	return otel.Tracer(constant.TelemetryLibraryName)
}

func resolveRunID(runID string) string {
	if trimmed := strings.TrimSpace(runID); trimmed != "" {
		return trimmed
	}

	return uuid.New().String()
}

// resolveMetricFactory never returns nil; a factory that cannot be built falls back to a no-op one.
func resolveMetricFactory(factory *metrics.MetricsFactory) *metrics.MetricsFactory {
	if factory != nil {
		return factory
	}

	meter := otel.GetMeterProvider().Meter(constant.TelemetryLibraryName)

	defaultFactory, err := metrics.NewMetricsFactory(meter, &log.NopLogger{})
	if err != nil {
		asserter := assert.New(context.Background(), nil, "payments", "resolveMetricFactory")
		_ = asserter.Never(context.Background(), "failed to create default MetricsFactory: "+err.Error())

		return metrics.NewNopFactory()
	}

	return defaultFactory
}
