// Package payments holds the process-wide plumbing shared by the ledger
// packages: the tracking context that carries logger, tracer, run id and
// metrics factory, environment helpers, and the engine configuration.
package payments
