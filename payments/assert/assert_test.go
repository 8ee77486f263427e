//go:build unit

package assert

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/blackghost1987/payment-engine/payments/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestThat(t *testing.T) {
	t.Parallel()

	asserter := New(context.Background(), nil, "ledger", "merge")

	require.NoError(t, asserter.That(context.Background(), true, "never fails"))

	err := asserter.That(context.Background(), false, "client merged twice", "client", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAssertionFailed)

	var assertionErr *AssertionError
	require.True(t, errors.As(err, &assertionErr))
	assert.Equal(t, "That", assertionErr.Assertion)
	assert.Equal(t, "ledger", assertionErr.Component)
	assert.Equal(t, "merge", assertionErr.Operation)
	assert.Contains(t, assertionErr.Details, "client=5")
}

func TestNotNil(t *testing.T) {
	t.Parallel()

	asserter := New(context.Background(), nil, "ledger", "fold")

	var typedNil *strings.Builder

	require.NoError(t, asserter.NotNil(context.Background(), &strings.Builder{}, "present"))
	require.Error(t, asserter.NotNil(context.Background(), nil, "untyped nil"))
	require.Error(t, asserter.NotNil(context.Background(), typedNil, "typed nil"))
	require.NoError(t, asserter.NotNil(context.Background(), 0, "zero int is not nil"))
}

func TestNeverLogsFailure(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	asserter := New(context.Background(), log.NewGoLogger(&buf, log.LevelError), "ledger", "fold")

	err := asserter.Never(context.Background(), "unreachable", "kind", "bogus")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "ASSERTION FAILED: unreachable")
	assert.Contains(t, buf.String(), "kind=bogus")
}

func TestNilAsserterStillReturnsError(t *testing.T) {
	t.Parallel()

	var asserter *Asserter

	err := asserter.Never(context.Background(), "nil asserter")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAssertionFailed)
}

func TestFailureRecordsSpanEvent(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	ctx, span := provider.Tracer("test").Start(context.Background(), "ledger.process")
	_ = New(ctx, nil, "ledger", "merge").That(ctx, false, "duplicate client")
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)

	var names []string
	for _, event := range ended[0].Events() {
		names = append(names, event.Name)
	}

	assert.Contains(t, names, AssertionSpanEventName)
	assert.Equal(t, "assertion failed in ledger/merge", ended[0].Status().Description)
}

func TestTruncateValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", truncateValue("short"))

	long := strings.Repeat("a", maxValueLength+10)
	assert.Contains(t, truncateValue(long), "(truncated 10 chars)")
}

func TestAssertionErrorNilReceiver(t *testing.T) {
	t.Parallel()

	var entry *AssertionError

	assert.Equal(t, ErrAssertionFailed.Error(), entry.Error())
}
