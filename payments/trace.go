package payments

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/propagation"
)

// ContextWithTraceParent makes the W3C trace context in traceparent (and the
// optional tracestate) the remote parent of spans started from the returned
// context. Blank or malformed values leave ctx unchanged.
func ContextWithTraceParent(ctx context.Context, traceparent, tracestate string) context.Context {
	traceparent = strings.TrimSpace(traceparent)
	if traceparent == "" {
		return ctx
	}

	carrier := propagation.MapCarrier{"traceparent": traceparent}

	if tracestate = strings.TrimSpace(tracestate); tracestate != "" {
		carrier["tracestate"] = tracestate
	}

	return propagation.TraceContext{}.Extract(ctx, carrier)
}
