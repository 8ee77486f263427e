package log

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// logControlCharReplacer escapes control characters that can be used for log injection (CWE-117).
// Newlines, carriage returns, and tabs in record fields can forge fake log entries.
var logControlCharReplacer = strings.NewReplacer(
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// sanitizeLogString escapes control characters in a single string value.
func sanitizeLogString(s string) string {
	return logControlCharReplacer.Replace(s)
}

// GoLogger is the Go built-in (log) implementation of Logger.
//
// It is the fallback used when the zap backend cannot be built. Every string
// value is sanitized before it is written.
type GoLogger struct {
	Level  Level
	fields []Field
	group  string
	out    *log.Logger
}

// NewGoLogger creates a GoLogger writing to w at the given level.
// A nil writer falls back to stderr.
func NewGoLogger(w io.Writer, level Level) *GoLogger {
	if w == nil {
		w = os.Stderr
	}

	return &GoLogger{
		Level: level,
		out:   log.New(w, "", log.LstdFlags),
	}
}

func (l *GoLogger) writer() *log.Logger {
	if l.out != nil {
		return l.out
	}

	return log.Default()
}

// Log writes msg and fields when level is enabled.
func (l *GoLogger) Log(_ context.Context, level Level, msg string, fields ...Field) {
	if !l.Enabled(level) {
		return
	}

	l.writer().Print(l.hydrate(level, msg, fields))
}

// With returns a child logger carrying additional fields.
//
//nolint:ireturn
func (l *GoLogger) With(fields ...Field) Logger {
	if l == nil {
		return &GoLogger{}
	}

	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)

	return &GoLogger{Level: l.Level, fields: merged, group: l.group, out: l.out}
}

// WithGroup returns a child logger whose subsequent fields are prefixed with name.
//
//nolint:ireturn
func (l *GoLogger) WithGroup(name string) Logger {
	if l == nil {
		return &GoLogger{}
	}

	group := name
	if l.group != "" {
		group = l.group + "." + name
	}

	return &GoLogger{Level: l.Level, fields: l.fields, group: group, out: l.out}
}

// Enabled reports whether the level is at or below the configured verbosity ceiling.
func (l *GoLogger) Enabled(level Level) bool {
	if l == nil {
		return false
	}

	return l.Level >= level
}

// Sync is a no-op; the standard logger writes synchronously.
func (l *GoLogger) Sync(_ context.Context) error { return nil }

func (l *GoLogger) hydrate(level Level, msg string, fields []Field) string {
	parts := make([]string, 0, 3)
	parts = append(parts, fmt.Sprintf("[%s]", level.String()), sanitizeLogString(msg))

	all := make([]Field, 0, len(l.fields)+len(fields))
	all = append(all, l.fields...)
	all = append(all, fields...)

	if len(all) > 0 {
		kv := make([]string, 0, len(all))

		for _, f := range all {
			key := f.Key
			if l.group != "" {
				key = l.group + "." + key
			}

			kv = append(kv, fmt.Sprintf("%s=%s", sanitizeLogString(key), sanitizeLogString(fmt.Sprint(f.Value))))
		}

		parts = append(parts, "["+strings.Join(kv, ", ")+"]")
	}

	return strings.Join(parts, " ")
}
