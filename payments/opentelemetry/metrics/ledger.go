package metrics

import (
	"context"

	constant "github.com/blackghost1987/payment-engine/payments/constants"
	"go.opentelemetry.io/otel/attribute"
)

// Pre-configured ledger metrics.
var (
	MetricTransactionsProcessed = Metric{
		Name:        constant.MetricTransactionsProcessed,
		Unit:        "1",
		Description: "Number of transaction records folded into a client account, by kind and outcome.",
	}

	MetricTransactionsRejected = Metric{
		Name:        constant.MetricTransactionsRejected,
		Unit:        "1",
		Description: "Number of transaction records discarded by a client account, by kind and reason.",
	}

	MetricAccountsProcessed = Metric{
		Name:        constant.MetricAccountsProcessed,
		Unit:        "1",
		Description: "Number of client accounts produced by the ledger engine.",
	}

	MetricAccountsLocked = Metric{
		Name:        constant.MetricAccountsLocked,
		Unit:        "1",
		Description: "Number of client accounts locked by a chargeback.",
	}

	MetricPartitionDuration = Metric{
		Name:        constant.MetricPartitionDuration,
		Unit:        "s",
		Description: "Time spent folding one client partition.",
		Buckets:     DefaultLatencyBuckets,
	}
)

// Outcome labels for MetricTransactionsProcessed.
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
)

// RecordTransactionProcessed increments the processed counter for kind and outcome.
func (f *MetricsFactory) RecordTransactionProcessed(ctx context.Context, kind, outcome string) error {
	b, err := f.Counter(MetricTransactionsProcessed)
	if err != nil {
		return err
	}

	return b.WithAttributes(
		attribute.String(constant.AttrKind, constant.SanitizeMetricLabel(kind)),
		attribute.String(constant.AttrOutcome, outcome),
	).AddOne(ctx)
}

// RecordTransactionRejected increments the rejected counter for kind and reason.
func (f *MetricsFactory) RecordTransactionRejected(ctx context.Context, kind, reason string) error {
	b, err := f.Counter(MetricTransactionsRejected)
	if err != nil {
		return err
	}

	return b.WithAttributes(
		attribute.String(constant.AttrKind, constant.SanitizeMetricLabel(kind)),
		attribute.String(constant.AttrReason, constant.SanitizeMetricLabel(reason)),
	).AddOne(ctx)
}

// RecordAccounts adds the number of produced and locked accounts of a run.
func (f *MetricsFactory) RecordAccounts(ctx context.Context, processed, locked int64) error {
	b, err := f.Counter(MetricAccountsProcessed)
	if err != nil {
		return err
	}

	if err := b.Add(ctx, processed); err != nil {
		return err
	}

	b, err = f.Counter(MetricAccountsLocked)
	if err != nil {
		return err
	}

	return b.Add(ctx, locked)
}

// RecordPartitionDuration records how long one partition fold took, in seconds.
func (f *MetricsFactory) RecordPartitionDuration(ctx context.Context, seconds float64) error {
	b, err := f.Histogram(MetricPartitionDuration)
	if err != nil {
		return err
	}

	return b.Record(ctx, seconds)
}
