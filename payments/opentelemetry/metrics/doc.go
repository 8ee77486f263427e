// Package metrics provides a fluent factory for OpenTelemetry metric instruments.
//
// MetricsFactory caches instruments and exposes builder-style APIs for counters
// and histograms. Convenience methods (RecordTransactionProcessed and friends)
// cover the ledger engine's own metrics.
package metrics
