package constant

// TelemetrySDKName identifies this library in OTEL instrumentation scopes.
const TelemetrySDKName = "nar-dev-util/devutil"

// MaxMetricLabelLength is the maximum length for metric labels to prevent cardinality explosion.
// Used by assert, runtime, and shared for label sanitization.
const MaxMetricLabelLength = 64

// Telemetry attribute key prefixes.
const (
	// AttrPrefixAssertion is the prefix for assertion event attributes.
	AttrPrefixAssertion = "assertion."
	// AttrPrefixPanic is the prefix for panic event attributes.
	AttrPrefixPanic = "panic."
	// AttrPrefixHandle is the prefix for shared handle event attributes.
	AttrPrefixHandle = "shared_handle."
)

// Telemetry metric names.
const (
	// MetricPanicRecoveredTotal is the counter metric for recovered panics.
	MetricPanicRecoveredTotal = "panic_recovered_total"
	// MetricAssertionFailedTotal is the counter metric for failed assertions.
	MetricAssertionFailedTotal = "assertion_failed_total"
	// MetricHandlePoisonedTotal is the counter metric for guarded cells poisoned by a failed write.
	MetricHandlePoisonedTotal = "shared_handle_poisoned_total"
	// MetricHandleLockWait is the histogram metric for time spent waiting on a guarded cell.
	MetricHandleLockWait = "shared_handle_lock_wait_us"
)

// Telemetry event names.
const (
	// EventAssertionFailed is the span event name for assertion failures.
	EventAssertionFailed = "assertion.failed"
	// EventPanicRecovered is the span event name for recovered panics.
	EventPanicRecovered = "panic.recovered"
	// EventHandlePoisoned is the span event name for a guarded cell entering the poisoned state.
	EventHandlePoisoned = "shared_handle.poisoned"
	// EventHandleRepaired is the span event name for a poisoned cell being repaired.
	EventHandleRepaired = "shared_handle.repaired"
)

// SanitizeMetricLabel truncates a label value to MaxMetricLabelLength
// to prevent metric cardinality explosion in OTEL backends.
func SanitizeMetricLabel(value string) string {
	if len(value) > MaxMetricLabelLength {
		return value[:MaxMetricLabelLength]
	}

	return value
}
