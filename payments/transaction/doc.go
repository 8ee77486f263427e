// Package transaction defines the input records of the payment engine and the
// typed domain errors produced while applying them.
//
// Core types:
//   - Record is one immutable line of the transaction log.
//   - Kind is the closed set of record kinds.
//   - DomainError carries an ErrorCode; every code has a sentinel for errors.Is.
package transaction
