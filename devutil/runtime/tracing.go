package runtime

import (
	"context"
	"errors"
	"fmt"

	constant "github.com/ARCJ137442/NAR-dev-util/devutil/constants"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrPanic is the error recorded on spans for recovered panics.
var ErrPanic = errors.New("panic")

// PanicSpanEventName is the span event name for recovered panics.
const PanicSpanEventName = constant.EventPanicRecovered

// RecordPanicToSpanWithComponent adds a panic event to the span in ctx and marks it failed.
// It is a no-op without a recording span. Production mode omits the value and stack.
func RecordPanicToSpanWithComponent(ctx context.Context, panicValue any, stack []byte, component, name string) {
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	production := IsProductionMode()

	attrs := []attribute.KeyValue{
		attribute.String(constant.AttrPrefixPanic+"goroutine_name", name),
	}

	if component != "" {
		attrs = append(attrs, attribute.String(constant.AttrPrefixPanic+"component", component))
	}

	if !production {
		attrs = append(attrs,
			attribute.String(constant.AttrPrefixPanic+"value", formatPanicValue(panicValue)),
			attribute.String(constant.AttrPrefixPanic+"stack", string(stack)),
		)
	}

	span.AddEvent(PanicSpanEventName, trace.WithAttributes(attrs...))

	if production {
		span.RecordError(ErrPanic)
	} else {
		span.RecordError(fmt.Errorf("%w: %s", ErrPanic, formatPanicValue(panicValue)))
	}

	span.SetStatus(codes.Error, "panic recovered in "+name)
}
