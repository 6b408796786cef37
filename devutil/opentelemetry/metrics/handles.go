package metrics

import (
	"context"
	"time"

	constant "github.com/ARCJ137442/NAR-dev-util/devutil/constants"
)

// RecordHandlePoisoned increments shared_handle_poisoned_total for the named cell.
func (f *MetricsFactory) RecordHandlePoisoned(ctx context.Context, name string) error {
	counter, err := f.Counter(MetricHandlePoisoned)
	if err != nil {
		return err
	}

	return counter.
		WithLabels(map[string]string{"handle": constant.SanitizeMetricLabel(name)}).
		AddOne(ctx)
}

// RecordHandleLockWait records how long an access to the named cell waited for its guard.
// mode is "read" or "write".
func (f *MetricsFactory) RecordHandleLockWait(ctx context.Context, name, mode string, wait time.Duration) error {
	histogram, err := f.Histogram(MetricHandleLockWait)
	if err != nil {
		return err
	}

	return histogram.
		WithLabels(map[string]string{
			"handle": constant.SanitizeMetricLabel(name),
			"mode":   mode,
		}).
		Record(ctx, wait.Microseconds())
}
