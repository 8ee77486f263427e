// Package ledger folds a transaction log into per-client accounts.
//
// Records are partitioned by client, keeping their relative order. Each
// partition is folded through a fresh account by exactly one goroutine, so
// accounts are never shared. Partitions run either one after another or
// fanned out over a bounded errgroup; both modes produce the same accounts.
// Records an account rejects are logged at debug level, counted and skipped.
package ledger
