// Package runtime provides panic recovery helpers that log the stack trace and
// record the panic on the active OpenTelemetry span.
package runtime
