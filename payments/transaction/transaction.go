package transaction

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ClientID identifies a client account. Accounts are created on first reference.
type ClientID uint16

// ID identifies a transaction. It is unique only among the deposits and
// withdrawals of a single client.
type ID uint32

// Kind is the type of a transaction record.
type Kind string

const (
	// KindDeposit credits the available balance.
	KindDeposit Kind = "deposit"
	// KindWithdrawal debits the available balance.
	KindWithdrawal Kind = "withdrawal"
	// KindDispute moves a referenced transaction's amount from available to held.
	KindDispute Kind = "dispute"
	// KindResolve reverses a dispute, moving the amount back to available.
	KindResolve Kind = "resolve"
	// KindChargeback removes a disputed amount from held and locks the account.
	KindChargeback Kind = "chargeback"
)

// Kinds lists every supported kind in declaration order.
var Kinds = []Kind{KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback}

// ParseKind parses a kind token. Matching is case-insensitive and ignores
// surrounding whitespace.
func ParseKind(s string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(s)))

	switch kind {
	case KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback:
		return kind, nil
	default:
		return "", NewDomainError(ErrorUnsupportedKind, "type", fmt.Sprintf("unsupported transaction type %q", s))
	}
}

// String returns the kind token.
func (k Kind) String() string {
	return string(k)
}

// CarriesAmount reports whether records of this kind must have an amount.
func (k Kind) CarriesAmount() bool {
	switch k {
	case KindDeposit, KindWithdrawal:
		return true
	case KindDispute, KindResolve, KindChargeback:
		return false
	default:
		return false
	}
}

// Record is a single entry of the transaction log.
type Record struct {
	Kind   Kind             `json:"type"`
	Client ClientID         `json:"client"`
	ID     ID               `json:"tx"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

// AmountValue returns the record amount, or a MissingAmount error when absent.
func (r Record) AmountValue() (decimal.Decimal, error) {
	if r.Amount == nil {
		return decimal.Zero, NewDomainError(ErrorMissingAmount, "amount", fmt.Sprintf("%s %d has no amount", r.Kind, r.ID))
	}

	return *r.Amount, nil
}

// HasUnexpectedAmount reports whether a dispute, resolve or chargeback record
// carries an amount. Such amounts are ignored.
func (r Record) HasUnexpectedAmount() bool {
	return r.Amount != nil && !r.Kind.CarriesAmount()
}
