package log

import (
	"context"
	"fmt"
	stdlog "log"
	"strings"
)

// logControlCharReplacer escapes characters that could forge extra log lines (CWE-117).
var logControlCharReplacer = strings.NewReplacer(
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func sanitizeLogString(s string) string {
	return logControlCharReplacer.Replace(s)
}

// GoLogger writes through the standard library logger.
//
// It is the fallback used when no structured backend is configured. String
// values are escaped so that multi-line panic values cannot forge entries.
type GoLogger struct {
	Level  Level
	Output *stdlog.Logger
	fields []Field
	groups []string
}

var _ Logger = (*GoLogger)(nil)

// NewGoLogger returns a GoLogger writing to the standard logger at level.
func NewGoLogger(level Level) *GoLogger {
	return &GoLogger{Level: level}
}

// Enabled reports whether level is at or above the configured verbosity.
func (l *GoLogger) Enabled(level Level) bool {
	if l == nil {
		return false
	}

	return l.Level >= level
}

// Log formats msg and fields as a single line.
func (l *GoLogger) Log(_ context.Context, level Level, msg string, fields ...Field) {
	if !l.Enabled(level) {
		return
	}

	l.output().Print(l.format(level, msg, fields))
}

// With returns a child logger carrying fields on every entry.
//
//nolint:ireturn
func (l *GoLogger) With(fields ...Field) Logger {
	if l == nil {
		return &GoLogger{}
	}

	child := l.clone()
	child.fields = append(child.fields, fields...)

	return child
}

// WithGroup namespaces every field key of the child logger under name.
//
//nolint:ireturn
func (l *GoLogger) WithGroup(name string) Logger {
	if l == nil {
		return &GoLogger{}
	}

	child := l.clone()
	if name != "" {
		child.groups = append(child.groups, name)
	}

	return child
}

// Sync is a no-op; the standard logger is unbuffered.
func (l *GoLogger) Sync(_ context.Context) error { return nil }

func (l *GoLogger) clone() *GoLogger {
	return &GoLogger{
		Level:  l.Level,
		Output: l.Output,
		fields: append([]Field(nil), l.fields...),
		groups: append([]string(nil), l.groups...),
	}
}

func (l *GoLogger) output() *stdlog.Logger {
	if l.Output != nil {
		return l.Output
	}

	return stdlog.Default()
}

func (l *GoLogger) format(level Level, msg string, fields []Field) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "[%s] %s", level.String(), sanitizeLogString(msg))

	all := make([]Field, 0, len(l.fields)+len(fields))
	all = append(all, l.fields...)
	all = append(all, fields...)

	if len(all) == 0 {
		return sb.String()
	}

	prefix := ""
	if len(l.groups) > 0 {
		prefix = strings.Join(l.groups, ".") + "."
	}

	sb.WriteString(" [")

	for i, field := range all {
		if i > 0 {
			sb.WriteString(", ")
		}

		value := fmt.Sprint(field.Value)
		fmt.Fprintf(&sb, "%s%s=%s", prefix, sanitizeLogString(field.Key), sanitizeLogString(value))
	}

	sb.WriteString("]")

	return sb.String()
}
