//go:build unit

package assert

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ARCJ137442/NAR-dev-util/devutil/log"
	"github.com/ARCJ137442/NAR-dev-util/devutil/opentelemetry/metrics"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type recordedLog struct {
	msg    string
	fields map[string]any
}

type recordingLogger struct {
	mu   sync.Mutex
	logs []recordedLog
}

func (l *recordingLogger) Log(_ context.Context, _ log.Level, msg string, fields ...log.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	values := map[string]any{}
	for _, f := range fields {
		values[f.Key] = f.Value
	}

	l.logs = append(l.logs, recordedLog{msg: msg, fields: values})
}

func TestAssertionError_NilReceiver(t *testing.T) {
	t.Parallel()

	var entry *AssertionError
	require.Equal(t, ErrAssertionFailed.Error(), entry.Error())
}

func TestAsserter_Passing(t *testing.T) {
	t.Parallel()

	a := New(context.Background(), nil, "iterators", "bfs")

	require.NoError(t, a.That(context.Background(), true, "unused"))
	require.NoError(t, a.NotNil(context.Background(), 1, "unused"))
}

func TestAsserter_Failures(t *testing.T) {
	t.Parallel()

	var nilFunc func()

	tests := []struct {
		name      string
		run       func(a *Asserter) error
		assertion string
	}{
		{name: "That false", run: func(a *Asserter) error { return a.That(nil, false, "roots required") }, assertion: "That"},
		{name: "NotNil untyped", run: func(a *Asserter) error { return a.NotNil(nil, nil, "roots required") }, assertion: "NotNil"},
		{name: "NotNil typed", run: func(a *Asserter) error { return a.NotNil(nil, nilFunc, "roots required") }, assertion: "NotNil"},
		{name: "Never", run: func(a *Asserter) error { return a.Never(nil, "roots required") }, assertion: "Never"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger := &recordingLogger{}
			a := New(context.Background(), logger, "iterators", "bfs")

			err := tt.run(a)
			require.ErrorIs(t, err, ErrAssertionFailed)

			var assertionErr *AssertionError
			require.True(t, errors.As(err, &assertionErr))
			require.Equal(t, tt.assertion, assertionErr.Assertion)
			require.Equal(t, "iterators", assertionErr.Component)
			require.Equal(t, "bfs", assertionErr.Operation)
			require.Equal(t, "assertion failed: roots required", err.Error())

			require.Len(t, logger.logs, 1)
			require.Equal(t, "assertion failed: roots required", logger.logs[0].msg)
			require.Equal(t, tt.assertion, logger.logs[0].fields["assertion"])
		})
	}
}

func TestAsserter_DetailsAreTruncated(t *testing.T) {
	t.Parallel()

	a := New(context.Background(), nil, "", "")
	err := a.That(context.Background(), false, "too long", "payload", strings.Repeat("x", 500), "dangling")

	var assertionErr *AssertionError
	require.True(t, errors.As(err, &assertionErr))
	require.Contains(t, assertionErr.Details["payload"], "truncated 300 chars")
	require.Equal(t, "MISSING_VALUE", assertionErr.Details["dangling"])
}

func TestAsserter_NilReceiver(t *testing.T) {
	t.Parallel()

	var a *Asserter
	require.ErrorIs(t, a.Never(nil, "unreachable"), ErrAssertionFailed)
}

func TestAsserter_RecordsSpanEvent(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	ctx, span := provider.Tracer("test").Start(context.Background(), "op")

	_ = New(ctx, nil, "shared", "wrap").That(ctx, false, "name required")
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	require.Equal(t, codes.Error, ended[0].Status().Code)
	require.Equal(t, "assertion failed in shared/wrap", ended[0].Status().Description)

	found := false
	for _, event := range ended[0].Events() {
		if event.Name == AssertionSpanEventName {
			found = true
		}
	}

	require.True(t, found)
}

func TestAssertionStatusMessage(t *testing.T) {
	t.Parallel()

	require.Equal(t, "assertion failed in c/o", assertionStatusMessage("c", "o"))
	require.Equal(t, "assertion failed in c", assertionStatusMessage("c", ""))
	require.Equal(t, "assertion failed in o", assertionStatusMessage("", "o"))
	require.Equal(t, "assertion failed", assertionStatusMessage("", ""))
}

func TestAssertionMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	factory, err := metrics.NewMetricsFactory(provider.Meter("test"), nil)
	require.NoError(t, err)

	ResetAssertionMetrics()
	InitAssertionMetrics(factory)
	t.Cleanup(ResetAssertionMetrics)

	_ = New(context.Background(), nil, "iterators", "bfs").Never(context.Background(), "boom")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "assertion_failed_total" {
				continue
			}

			for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
				total += dp.Value
			}
		}
	}

	require.Equal(t, int64(1), total)
}
