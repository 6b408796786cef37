// Package assert checks construction-time invariants and reports failures as
// errors carrying logs, a counter increment and a span event.
package assert

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strconv"

	"github.com/ARCJ137442/NAR-dev-util/devutil/internal/nilcheck"
	"github.com/ARCJ137442/NAR-dev-util/devutil/log"
	"github.com/ARCJ137442/NAR-dev-util/devutil/runtime"
)

// Asserter evaluates invariants for one component and operation.
type Asserter struct {
	ctx       context.Context
	logger    runtime.Logger
	component string
	operation string
}

// ErrAssertionFailed is the sentinel error for failed assertions.
var ErrAssertionFailed = errors.New("assertion failed")

// AssertionError describes a failed assertion.
type AssertionError struct {
	Assertion string
	Message   string
	Component string
	Operation string
	Details   map[string]string
}

// Error returns the failure message.
func (entry *AssertionError) Error() string {
	if entry == nil {
		return ErrAssertionFailed.Error()
	}

	return "assertion failed: " + entry.Message
}

// Unwrap returns ErrAssertionFailed.
func (entry *AssertionError) Unwrap() error {
	return ErrAssertionFailed
}

// New creates an Asserter. A nil ctx falls back to context.Background.
//
//nolint:contextcheck
func New(ctx context.Context, logger runtime.Logger, component, operation string) *Asserter {
	if ctx == nil {
		ctx = context.Background()
	}

	return &Asserter{
		ctx:       ctx,
		logger:    logger,
		component: component,
		operation: operation,
	}
}

// That returns an error if ok is false.
//
//	if err := a.That(ctx, len(roots) > 0, "roots must not be empty"); err != nil {
//		return err
//	}
func (asserter *Asserter) That(ctx context.Context, ok bool, msg string, kv ...any) error {
	if ok {
		return nil
	}

	return asserter.fail(ctx, "That", msg, kv...)
}

// NotNil returns an error if v is nil, including typed nils inside an interface.
func (asserter *Asserter) NotNil(ctx context.Context, v any, msg string, kv ...any) error {
	if !nilcheck.Interface(v) {
		return nil
	}

	return asserter.fail(ctx, "NotNil", msg, kv...)
}

// Never always returns an error. Use it on paths that must be unreachable.
func (asserter *Asserter) Never(ctx context.Context, msg string, kv ...any) error {
	return asserter.fail(ctx, "Never", msg, kv...)
}

const maxValueLength = 200

func truncateValue(v any) string {
	s := fmt.Sprintf("%v", v)
	if len(s) <= maxValueLength {
		return s
	}

	return s[:maxValueLength] + "... (truncated " + strconv.Itoa(len(s)-maxValueLength) + " chars)"
}

func (asserter *Asserter) fail(ctx context.Context, assertion, msg string, kv ...any) error {
	ctx, logger, component, operation := asserter.values(ctx)
	details := detailsFromPairs(kv)

	var stack []byte
	if !runtime.IsProductionMode() {
		stack = debug.Stack()
	}

	logAssertion(ctx, logger, assertion, msg, component, operation, details, stack)
	recordAssertionMetric(ctx, component, operation, assertion)
	recordAssertionToSpan(ctx, assertion, msg, stack, component, operation)

	return &AssertionError{
		Assertion: assertion,
		Message:   msg,
		Component: component,
		Operation: operation,
		Details:   details,
	}
}

func (asserter *Asserter) values(ctx context.Context) (context.Context, runtime.Logger, string, string) {
	if asserter == nil {
		if ctx == nil {
			ctx = context.Background()
		}

		return ctx, nil, "", ""
	}

	if ctx == nil {
		ctx = asserter.ctx
	}

	return ctx, asserter.logger, asserter.component, asserter.operation
}

func detailsFromPairs(kv []any) map[string]string {
	if len(kv) == 0 {
		return nil
	}

	details := make(map[string]string, (len(kv)+1)/2)

	for i := 0; i < len(kv); i += 2 {
		value := "MISSING_VALUE"
		if i+1 < len(kv) {
			value = truncateValue(kv[i+1])
		}

		details[fmt.Sprintf("%v", kv[i])] = value
	}

	return details
}

func logAssertion(
	ctx context.Context,
	logger runtime.Logger,
	assertion, msg, component, operation string,
	details map[string]string,
	stack []byte,
) {
	if nilcheck.Interface(logger) {
		return
	}

	fields := make([]log.Field, 0, len(details)+4)
	fields = append(fields, log.String("assertion", assertion))

	if component != "" {
		fields = append(fields, log.String("component", component))
	}

	if operation != "" {
		fields = append(fields, log.String("operation", operation))
	}

	for key, value := range details {
		fields = append(fields, log.String(key, value))
	}

	if len(stack) > 0 {
		fields = append(fields, log.String("stack_trace", string(stack)))
	}

	logger.Log(ctx, log.LevelError, "assertion failed: "+msg, fields...)
}
