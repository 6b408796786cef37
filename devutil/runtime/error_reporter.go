package runtime

import (
	"context"
	"fmt"
	"sync"
)

// ErrorReporter forwards recovered panics to an external tracking service.
// Implementations must be safe for concurrent use and must not panic.
type ErrorReporter interface {
	CaptureException(ctx context.Context, err error, tags map[string]string)
}

var (
	errorReporterInstance ErrorReporter
	errorReporterMu       sync.RWMutex
)

// SetErrorReporter installs the process-wide reporter. nil disables reporting.
func SetErrorReporter(reporter ErrorReporter) {
	errorReporterMu.Lock()
	defer errorReporterMu.Unlock()

	errorReporterInstance = reporter
}

// GetErrorReporter returns the configured reporter, or nil.
func GetErrorReporter() ErrorReporter {
	errorReporterMu.RLock()
	defer errorReporterMu.RUnlock()

	return errorReporterInstance
}

var (
	productionMode   bool
	productionModeMu sync.RWMutex
)

const redactedPanicMsg = "panic recovered (details redacted)"

// maxReportedStack bounds the stack attached to reporter tags.
const maxReportedStack = 4096

// SetProductionMode toggles redaction of panic values and stacks.
func SetProductionMode(enabled bool) {
	productionModeMu.Lock()
	defer productionModeMu.Unlock()

	productionMode = enabled
}

// IsProductionMode reports whether redaction is enabled.
func IsProductionMode() bool {
	productionModeMu.RLock()
	defer productionModeMu.RUnlock()

	return productionMode
}

func reportPanicToErrorService(ctx context.Context, panicValue any, stack []byte, component, name string) {
	reporter := GetErrorReporter()
	if reporter == nil {
		return
	}

	production := IsProductionMode()

	tags := map[string]string{
		"component":      component,
		"goroutine_name": name,
		"panic_type":     "recovered",
	}

	if len(stack) > 0 && !production {
		trace := string(stack)
		if len(trace) > maxReportedStack {
			trace = trace[:maxReportedStack] + "\n...[truncated]"
		}

		tags["stack_trace"] = trace
	}

	reporter.CaptureException(ctx, toPanicError(panicValue, production), tags)
}

// PanicError wraps a non-error panic value.
type PanicError struct {
	Message string
}

func (e *PanicError) Error() string {
	return e.Message
}

// Unwrap lets errors.Is(err, ErrPanic) match.
func (e *PanicError) Unwrap() error {
	return ErrPanic
}

func toPanicError(panicValue any, production bool) error {
	if production {
		return &PanicError{Message: redactedPanicMsg}
	}

	if err, ok := panicValue.(error); ok {
		return err
	}

	if message, ok := panicValue.(string); ok {
		return &PanicError{Message: message}
	}

	return &PanicError{Message: "panic: " + formatPanicValue(panicValue)}
}

func formatPanicValue(value any) string {
	switch val := value.(type) {
	case nil:
		return "<nil>"
	case string:
		return val
	case error:
		return val.Error()
	default:
		return fmt.Sprintf("%v", value)
	}
}
