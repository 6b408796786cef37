package opentelemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/ARCJ137442/NAR-dev-util/devutil"
	"github.com/ARCJ137442/NAR-dev-util/devutil/assert"
	constant "github.com/ARCJ137442/NAR-dev-util/devutil/constants"
	"github.com/ARCJ137442/NAR-dev-util/devutil/log"
	"github.com/ARCJ137442/NAR-dev-util/devutil/opentelemetry/metrics"
	"github.com/ARCJ137442/NAR-dev-util/devutil/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// ErrNilTelemetryConfig indicates that a nil config was provided.
var ErrNilTelemetryConfig = errors.New("telemetry config cannot be nil")

// TelemetryConfig describes the providers to build.
type TelemetryConfig struct {
	LibraryName    string
	ServiceName    string
	ServiceVersion string
	DeploymentEnv  string
	// EnableTelemetry false builds providers that record nothing.
	EnableTelemetry bool
	// SpanExporter receives finished spans through a batcher. Optional.
	SpanExporter sdktrace.SpanExporter
	// MetricReader collects from the meter provider. Optional.
	MetricReader sdkmetric.Reader
	// SetGlobals installs the providers and a W3C propagator process-wide.
	SetGlobals bool
	// ErrorReporter, when set, receives recovered panics process-wide.
	ErrorReporter runtime.ErrorReporter
	Logger        log.Logger
}

// Telemetry holds the providers built from a TelemetryConfig.
type Telemetry struct {
	TelemetryConfig
	TracerProvider *sdktrace.TracerProvider
	MetricProvider *sdkmetric.MeterProvider
	MetricsFactory *metrics.MetricsFactory
}

func (tl *TelemetryConfig) newResource() *sdkresource.Resource {
	return sdkresource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(tl.ServiceName),
		semconv.ServiceVersion(tl.ServiceVersion),
		semconv.DeploymentEnvironment(tl.DeploymentEnv),
		semconv.TelemetrySDKName(constant.TelemetrySDKName),
		semconv.TelemetrySDKLanguageGo,
	)
}

func (tl *TelemetryConfig) newMeterProvider(res *sdkresource.Resource) *sdkmetric.MeterProvider {
	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	if tl.MetricReader != nil {
		opts = append(opts, sdkmetric.WithReader(tl.MetricReader))
	}

	return sdkmetric.NewMeterProvider(opts...)
}

func (tl *TelemetryConfig) newTracerProvider(res *sdkresource.Resource) *sdktrace.TracerProvider {
	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if tl.SpanExporter != nil {
		opts = append(opts, sdktrace.WithBatcher(tl.SpanExporter))
	}

	return sdktrace.NewTracerProvider(opts...)
}

// InitializeTelemetry builds the providers, installs the panic and assertion
// counters, and optionally sets the process-wide providers.
func InitializeTelemetry(cfg *TelemetryConfig) (*Telemetry, error) {
	if cfg == nil {
		return nil, ErrNilTelemetryConfig
	}

	l := log.OrNop(cfg.Logger)
	ctx := context.Background()

	var (
		mp *sdkmetric.MeterProvider
		tp *sdktrace.TracerProvider
	)

	if cfg.EnableTelemetry {
		l.Log(ctx, log.LevelInfo, "initializing telemetry", log.String("service", cfg.ServiceName))

		res := cfg.newResource()
		mp = cfg.newMeterProvider(res)
		tp = cfg.newTracerProvider(res)
	} else {
		l.Log(ctx, log.LevelWarn, "telemetry turned off")

		mp = sdkmetric.NewMeterProvider()
		tp = sdktrace.NewTracerProvider()
	}

	factory, err := metrics.NewMetricsFactory(mp.Meter(cfg.LibraryName), l)
	if err != nil {
		return nil, fmt.Errorf("can't create metrics factory: %w", err)
	}

	if cfg.SetGlobals {
		otel.SetMeterProvider(mp)
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	}

	if cfg.ErrorReporter != nil {
		runtime.SetErrorReporter(cfg.ErrorReporter)
	}

	runtime.InitPanicMetrics(factory, l)
	assert.InitAssertionMetrics(factory)

	return &Telemetry{
		TelemetryConfig: *cfg,
		TracerProvider:  tp,
		MetricProvider:  mp,
		MetricsFactory:  factory,
	}, nil
}

// Tracer returns a tracer named after LibraryName.
//
//nolint:ireturn
func (tl *Telemetry) Tracer() trace.Tracer {
	return tl.TracerProvider.Tracer(tl.LibraryName)
}

// ContextWithTracking returns ctx carrying this telemetry's logger, tracer and
// metrics factory, ready for shared.WithContext or iterators.WithContext.
func (tl *Telemetry) ContextWithTracking(ctx context.Context) context.Context {
	ctx = devutil.ContextWithLogger(ctx, log.OrNop(tl.Logger))
	ctx = devutil.ContextWithTracer(ctx, tl.Tracer())

	return devutil.ContextWithMetricFactory(ctx, tl.MetricsFactory)
}

// ShutdownTelemetry flushes and stops both providers.
func (tl *Telemetry) ShutdownTelemetry(ctx context.Context) error {
	return errors.Join(
		tl.MetricProvider.Shutdown(ctx),
		tl.TracerProvider.Shutdown(ctx),
	)
}

// HandleSpanError marks span failed with message and records err.
func HandleSpanError(span trace.Span, message string, err error) {
	if span == nil || err == nil {
		return
	}

	span.SetStatus(codes.Error, message+": "+err.Error())
	span.RecordError(err)
}

// HandleSpanEvent adds an event to span.
func HandleSpanEvent(span trace.Span, eventName string, attributes ...attribute.KeyValue) {
	if span == nil {
		return
	}

	span.AddEvent(eventName, trace.WithAttributes(attributes...))
}
