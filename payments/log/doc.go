// Package log defines the logging interface and typed logging fields used across
// the payment engine.
//
// Adapters (such as the zap package) implement Logger so the ledger, the CSV
// adapters and the CLI keep logging calls consistent across backends.
package log
