// Package account implements the per-client ledger.
//
// An Account folds transaction records one at a time through Apply. Every
// deposit and withdrawal it accepts is registered as a DisputeEntry, which
// later dispute, resolve and chargeback records reference by transaction id.
// Project builds the rounded read-only Output view used by writers.
package account
