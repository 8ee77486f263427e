package runtime

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/blackghost1987/payment-engine/payments/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PanicSpanEventName is the span event recorded for every recovered panic.
const PanicSpanEventName = "panic.recovered"

// RecoverAndLog recovers from a panic, logs it with the stack trace and records
// it on the span carried by ctx. Execution continues after the deferred call.
//
// Example:
//
//	func worker(ctx context.Context) {
//	    defer runtime.RecoverAndLog(ctx, logger, "ledger", "partition_worker")
//	    // ...
//	}
func RecoverAndLog(ctx context.Context, logger log.Logger, component, name string) {
	if r := recover(); r != nil {
		HandlePanicValue(ctx, logger, r, component, name)
	}
}

// HandlePanicValue processes a panic value that was already recovered by the
// caller. It logs and records observability data without calling recover itself.
func HandlePanicValue(ctx context.Context, logger log.Logger, panicValue any, component, name string) {
	if panicValue == nil {
		return
	}

	if ctx == nil {
		ctx = context.Background()
	}

	stack := debug.Stack()
	logPanicWithStack(ctx, logger, component, name, panicValue, stack)
	recordPanicToSpan(ctx, panicValue, stack, component, name)
}

func logPanicWithStack(ctx context.Context, logger log.Logger, component, name string, panicValue any, stack []byte) {
	if logger == nil {
		return
	}

	logger.Log(ctx, log.LevelError, "panic recovered",
		log.String("component", component),
		log.String("source", name),
		log.String("panic_value", fmt.Sprint(panicValue)),
		log.String("stack_trace", string(stack)),
	)
}

func recordPanicToSpan(ctx context.Context, panicValue any, stack []byte, component, name string) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.AddEvent(PanicSpanEventName, trace.WithAttributes(
		attribute.String("panic.component", component),
		attribute.String("panic.source", name),
		attribute.String("panic.value", fmt.Sprint(panicValue)),
		attribute.String("panic.stack", string(stack)),
	))
	span.SetStatus(codes.Error, "panic recovered in "+name)
}
