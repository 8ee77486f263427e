//go:build unit

package payments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

const testTraceParent = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"

func TestContextWithTraceParent(t *testing.T) {
	t.Parallel()

	ctx := ContextWithTraceParent(context.Background(), testTraceParent, "vendor=value")

	sc := trace.SpanContextFromContext(ctx)
	require.True(t, sc.IsValid())
	assert.True(t, sc.IsRemote())
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", sc.TraceID().String())
	assert.Equal(t, "00f067aa0ba902b7", sc.SpanID().String())
	assert.Equal(t, "value", sc.TraceState().Get("vendor"))
}

func TestContextWithTraceParent_BlankOrInvalid(t *testing.T) {
	t.Parallel()

	for _, traceparent := range []string{"", "   ", "not-a-traceparent"} {
		ctx := ContextWithTraceParent(context.Background(), traceparent, "")
		assert.False(t, trace.SpanContextFromContext(ctx).IsValid(), traceparent)
	}
}

func TestContextWithTraceParent_SpansJoinTrace(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	ctx := ContextWithTraceParent(context.Background(), testTraceParent, "")

	_, span := provider.Tracer("test").Start(ctx, "child")
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", spans[0].SpanContext().TraceID().String())
	assert.Equal(t, "00f067aa0ba902b7", spans[0].Parent().SpanID().String())
}
