package log

import (
	"context"

	"github.com/ARCJ137442/NAR-dev-util/devutil/internal/nilcheck"
)

// NopLogger discards every event.
type NopLogger struct{}

// NewNop returns a logger that discards every event.
//
//nolint:ireturn
func NewNop() Logger {
	return &NopLogger{}
}

func (l *NopLogger) Log(_ context.Context, _ Level, _ string, _ ...Field) {}

//nolint:ireturn
func (l *NopLogger) With(_ ...Field) Logger { return l }

//nolint:ireturn
func (l *NopLogger) WithGroup(_ string) Logger { return l }

func (l *NopLogger) Enabled(_ Level) bool { return false }

func (l *NopLogger) Sync(_ context.Context) error { return nil }

// OrNop returns logger, or a no-op logger when logger is nil or a typed nil.
//
//nolint:ireturn
func OrNop(logger Logger) Logger {
	if nilcheck.Interface(logger) {
		return NewNop()
	}

	return logger
}
