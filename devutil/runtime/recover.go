package runtime

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/ARCJ137442/NAR-dev-util/devutil/internal/nilcheck"
	"github.com/ARCJ137442/NAR-dev-util/devutil/log"
)

// Logger is the subset of log.Logger needed to report panics.
type Logger interface {
	Log(ctx context.Context, level log.Level, msg string, fields ...log.Field)
}

// RecoverWithPolicyAndContext recovers a panic, records it, and re-raises it
// when policy is CrashProcess.
func RecoverWithPolicyAndContext(ctx context.Context, logger Logger, component, name string, policy PanicPolicy) {
	if r := recover(); r != nil {
		HandlePanicValueWithStack(ctx, logger, r, debug.Stack(), component, name)

		if policy == CrashProcess {
			panic(r)
		}
	}
}

// HandlePanicValueWithStack records a panic value already recovered by the
// caller, with a stack captured inside the deferred function that called
// recover. A nil panicValue is ignored.
func HandlePanicValueWithStack(ctx context.Context, logger Logger, panicValue any, stack []byte, component, name string) {
	if panicValue == nil {
		return
	}

	if ctx == nil {
		ctx = context.Background()
	}

	logPanicWithStack(ctx, logger, component, name, panicValue, stack)
	recordPanicMetric(ctx, component, name)
	RecordPanicToSpanWithComponent(ctx, panicValue, stack, component, name)
	reportPanicToErrorService(ctx, panicValue, stack, component, name)
}

func logPanicWithStack(ctx context.Context, logger Logger, component, name string, panicValue any, stack []byte) {
	if nilcheck.Interface(logger) {
		return
	}

	logger.Log(ctx, log.LevelError, "panic recovered",
		log.String("component", component),
		log.String("source", name),
		log.String("panic_value", fmt.Sprintf("%v", panicValue)),
		log.String("stack_trace", string(stack)),
	)
}
