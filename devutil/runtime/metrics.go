package runtime

import (
	"context"
	"sync"

	constant "github.com/ARCJ137442/NAR-dev-util/devutil/constants"
	"github.com/ARCJ137442/NAR-dev-util/devutil/log"
	"github.com/ARCJ137442/NAR-dev-util/devutil/opentelemetry/metrics"
)

// PanicMetrics records panic_recovered_total through a MetricsFactory.
type PanicMetrics struct {
	factory *metrics.MetricsFactory
	logger  Logger
}

var panicRecoveredMetric = metrics.Metric{
	Name:        constant.MetricPanicRecoveredTotal,
	Unit:        "1",
	Description: "Total number of recovered panics",
}

var (
	panicMetricsInstance *PanicMetrics
	panicMetricsMu       sync.RWMutex
)

// InitPanicMetrics installs the process-wide panic counter. Later calls are no-ops
// until ResetPanicMetrics. logger, when given, receives metric recording failures.
func InitPanicMetrics(factory *metrics.MetricsFactory, logger ...Logger) {
	panicMetricsMu.Lock()
	defer panicMetricsMu.Unlock()

	if factory == nil || panicMetricsInstance != nil {
		return
	}

	pm := &PanicMetrics{factory: factory}
	if len(logger) > 0 {
		pm.logger = logger[0]
	}

	panicMetricsInstance = pm
}

// GetPanicMetrics returns the installed instance, or nil.
func GetPanicMetrics() *PanicMetrics {
	panicMetricsMu.RLock()
	defer panicMetricsMu.RUnlock()

	return panicMetricsInstance
}

// ResetPanicMetrics removes the installed instance. Intended for tests.
func ResetPanicMetrics() {
	panicMetricsMu.Lock()
	defer panicMetricsMu.Unlock()

	panicMetricsInstance = nil
}

// RecordPanicRecovered increments panic_recovered_total. No-op on a nil receiver.
func (pm *PanicMetrics) RecordPanicRecovered(ctx context.Context, component, name string) {
	if pm == nil || pm.factory == nil {
		return
	}

	counter, err := pm.factory.Counter(panicRecoveredMetric)
	if err == nil {
		err = counter.
			WithLabels(map[string]string{
				"component":      constant.SanitizeMetricLabel(component),
				"goroutine_name": constant.SanitizeMetricLabel(name),
			}).
			AddOne(ctx)
	}

	if err != nil && pm.logger != nil {
		pm.logger.Log(ctx, log.LevelWarn, "failed to record panic metric", log.Err(err))
	}
}

func recordPanicMetric(ctx context.Context, component, name string) {
	GetPanicMetrics().RecordPanicRecovered(ctx, component, name)
}
