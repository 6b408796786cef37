package shared

import (
	"context"

	"github.com/ARCJ137442/NAR-dev-util/devutil"
	"github.com/ARCJ137442/NAR-dev-util/devutil/log"
	"github.com/ARCJ137442/NAR-dev-util/devutil/opentelemetry/metrics"
	"github.com/ARCJ137442/NAR-dev-util/devutil/runtime"
)

const defaultName = "shared"

// Option configures a cell at Wrap time. Options apply to the cell, so every
// clone of a handle shares them.
type Option func(*options)

type options struct {
	ctx     context.Context
	logger  log.Logger
	factory *metrics.MetricsFactory
	name    string
	policy  runtime.PanicPolicy
	onDrop  any
}

// WithLogger sets the logger used for poisoning and drop events.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithName labels the cell in logs, errors and metrics.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithContext correlates the cell's events with ctx: poisoning is recorded on
// the span in ctx, and a logger or metrics factory carried by ctx is used when
// none is set explicitly. ctx never cancels an access.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithPanicPolicy decides what a guarded Write does after a panic poisoned
// the cell. The default, runtime.CrashProcess, re-panics in the caller.
// runtime.KeepRunning returns the *PoisonError instead.
func WithPanicPolicy(policy runtime.PanicPolicy) Option {
	return func(o *options) {
		o.policy = policy
	}
}

// WithOnDrop registers fn to receive the value when the last handle is released.
// fn must take the cell's value type; a mismatched fn is logged and ignored.
func WithOnDrop[T any](fn func(value T)) Option {
	return func(o *options) {
		if fn != nil {
			o.onDrop = fn
		}
	}
}

// WithMetrics records poisoning and lock waits of guarded cells through factory.
func WithMetrics(factory *metrics.MetricsFactory) Option {
	return func(o *options) {
		o.factory = factory
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		ctx:    context.Background(),
		name:   defaultName,
		policy: runtime.CrashProcess,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	if o.logger == nil {
		o.logger = devutil.NewLoggerFromContext(o.ctx)
	}

	if o.factory == nil {
		o.factory = devutil.MetricFactoryFromContext(o.ctx)
	}

	return o
}

// dropHook returns the registered drop function for T, logging a type mismatch.
func dropHook[T any](o *options) func(T) {
	if o.onDrop == nil {
		return nil
	}

	fn, ok := o.onDrop.(func(T))
	if !ok {
		o.logger.Log(o.ctx, log.LevelWarn, "drop hook ignored: value type mismatch",
			log.String("handle", o.name))

		return nil
	}

	return fn
}
