//go:build unit

package runtime

import (
	"context"
	"testing"

	"github.com/ARCJ137442/NAR-dev-util/devutil/opentelemetry/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestPanicMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	factory, err := metrics.NewMetricsFactory(provider.Meter("test"), nil)
	require.NoError(t, err)

	ResetPanicMetrics()
	InitPanicMetrics(factory)
	t.Cleanup(ResetPanicMetrics)

	// A second init does not replace the installed instance.
	first := GetPanicMetrics()
	InitPanicMetrics(metrics.NewNopFactory())
	assert.Same(t, first, GetPanicMetrics())

	HandlePanicValueWithStack(context.Background(), nil, "boom", nil, "shared", "write")
	HandlePanicValueWithStack(context.Background(), nil, "boom", nil, "shared", "write")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "panic_recovered_total" {
				continue
			}

			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)

			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}

	assert.Equal(t, int64(2), total)
}

func TestPanicMetrics_NilReceiver(t *testing.T) {
	t.Parallel()

	var pm *PanicMetrics
	assert.NotPanics(t, func() {
		pm.RecordPanicRecovered(context.Background(), "shared", "write")
	})
}

func TestInitPanicMetrics_NilFactory(t *testing.T) {
	ResetPanicMetrics()
	t.Cleanup(ResetPanicMetrics)

	InitPanicMetrics(nil)
	assert.Nil(t, GetPanicMetrics())
}
