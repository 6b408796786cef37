package devutil

import (
	"context"

	"github.com/ARCJ137442/NAR-dev-util/devutil/log"
	"github.com/ARCJ137442/NAR-dev-util/devutil/opentelemetry/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type customContextKey string

// CustomContextKey is the context key holding *CustomContextKeyValue.
var CustomContextKey = customContextKey("devutil_context")

// CustomContextKeyValue bundles the observability facilities carried on a context.
type CustomContextKeyValue struct {
	Tracer        trace.Tracer
	Logger        log.Logger
	MetricFactory *metrics.MetricsFactory
}

const defaultTracerName = "nar-dev-util.default"

// ContextWithLogger returns a copy of ctx carrying logger.
func ContextWithLogger(ctx context.Context, logger log.Logger) context.Context {
	return withValues(ctx, func(values *CustomContextKeyValue) { values.Logger = logger })
}

// ContextWithTracer returns a copy of ctx carrying tracer.
func ContextWithTracer(ctx context.Context, tracer trace.Tracer) context.Context {
	return withValues(ctx, func(values *CustomContextKeyValue) { values.Tracer = tracer })
}

// ContextWithMetricFactory returns a copy of ctx carrying factory.
func ContextWithMetricFactory(ctx context.Context, factory *metrics.MetricsFactory) context.Context {
	return withValues(ctx, func(values *CustomContextKeyValue) { values.MetricFactory = factory })
}

// withValues copies the existing bundle so parent contexts never observe the change.
func withValues(ctx context.Context, set func(*CustomContextKeyValue)) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	values := &CustomContextKeyValue{}
	if existing, ok := ctx.Value(CustomContextKey).(*CustomContextKeyValue); ok && existing != nil {
		*values = *existing
	}

	set(values)

	return context.WithValue(ctx, CustomContextKey, values)
}

// NewLoggerFromContext returns the logger carried by ctx, or a no-op logger.
//
//nolint:ireturn
func NewLoggerFromContext(ctx context.Context) log.Logger {
	logger, _, _ := NewTrackingFromContext(ctx)
	return logger
}

// NewTrackingFromContext returns the logger, tracer and metrics factory carried by ctx.
// Missing pieces resolve to a no-op logger, the global tracer and the
// global-meter factory, so the results are never nil.
//
//nolint:ireturn
func NewTrackingFromContext(ctx context.Context) (log.Logger, trace.Tracer, *metrics.MetricsFactory) {
	var values CustomContextKeyValue

	if ctx != nil {
		if existing, ok := ctx.Value(CustomContextKey).(*CustomContextKeyValue); ok && existing != nil {
			values = *existing
		}
	}

	return log.OrNop(values.Logger), resolveTracer(values.Tracer), resolveMetricFactory(values.MetricFactory)
}

// MetricFactoryFromContext returns the factory carried by ctx, or nil.
func MetricFactoryFromContext(ctx context.Context) *metrics.MetricsFactory {
	if ctx == nil {
		return nil
	}

	if values, ok := ctx.Value(CustomContextKey).(*CustomContextKeyValue); ok && values != nil {
		return values.MetricFactory
	}

	return nil
}

func resolveTracer(tracer trace.Tracer) trace.Tracer {
	if tracer != nil {
		return tracer
	}

	return otel.Tracer(defaultTracerName)
}

func resolveMetricFactory(factory *metrics.MetricsFactory) *metrics.MetricsFactory {
	if factory != nil {
		return factory
	}

	defaultFactory, err := metrics.NewMetricsFactory(otel.GetMeterProvider().Meter(defaultTracerName), nil)
	if err != nil {
		return metrics.NewNopFactory()
	}

	return defaultFactory
}
