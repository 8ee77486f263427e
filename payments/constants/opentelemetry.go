package constant

// TelemetryLibraryName identifies the engine in OTEL tracer, meter and logger names.
const TelemetryLibraryName = "payment-engine"

// MaxMetricLabelLength is the maximum length for metric labels to prevent cardinality explosion.
const MaxMetricLabelLength = 64

// Span names.
const (
	// SpanLedgerProcess wraps one Engine.Process call.
	SpanLedgerProcess = "ledger.process"
)

// Telemetry attribute keys.
const (
	AttrLedgerRecords  = "ledger.records"
	AttrLedgerClients  = "ledger.clients"
	AttrLedgerRejected = "ledger.rejected"
	AttrLedgerMode     = "ledger.mode"
	AttrLedgerRunID    = "ledger.run_id"
	AttrLedgerWorkers  = "ledger.workers"

	AttrKind          = "kind"
	AttrOutcome       = "outcome"
	AttrReason        = "reason"
	AttrClient        = "client"
	AttrTransactionID = "tx"
)

// Telemetry metric names.
const (
	MetricTransactionsProcessed = "ledger_transactions_processed"
	MetricTransactionsRejected  = "ledger_transactions_rejected"
	MetricAccountsProcessed     = "ledger_accounts_processed"
	MetricAccountsLocked        = "ledger_accounts_locked"
	MetricPartitionDuration     = "ledger_partition_duration_seconds"
)

// Telemetry event names.
const (
	// EventAssertionFailed is the span event name for assertion failures.
	EventAssertionFailed = "assertion.failed"
	// EventUnexpectedAmount is the span event recorded when a dispute-family record carries an amount.
	EventUnexpectedAmount = "ledger.unexpected_amount"
)

// SanitizeMetricLabel truncates a label value to MaxMetricLabelLength
// to prevent metric cardinality explosion in OTEL backends.
func SanitizeMetricLabel(value string) string {
	if len(value) > MaxMetricLabelLength {
		return value[:MaxMetricLabelLength]
	}

	return value
}
