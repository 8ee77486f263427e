// Package csv reads transaction logs and writes account summaries in CSV.
//
// Input starts with a header naming the type, client, tx and amount columns
// in any order. Fields are whitespace-trimmed and the amount column may be
// empty or absent on dispute, resolve and chargeback rows. Output has one row
// per account, sorted by client, with balances fixed to four decimals.
package csv
