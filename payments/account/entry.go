package account

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/blackghost1987/payment-engine/payments/transaction"
)

// DisputeEntry tracks the dispute status of one registered deposit or withdrawal.
type DisputeEntry struct {
	amountChange decimal.Decimal
	disputed     bool
	chargedBack  bool
}

// NewDisputeEntry builds the entry for a deposit or withdrawal record.
// Deposits store their amount, withdrawals store it negated.
func NewDisputeEntry(record transaction.Record) (*DisputeEntry, error) {
	amount, err := record.AmountValue()
	if err != nil {
		return nil, err
	}

	switch record.Kind {
	case transaction.KindDeposit:
		return &DisputeEntry{amountChange: amount}, nil
	case transaction.KindWithdrawal:
		return &DisputeEntry{amountChange: amount.Neg()}, nil
	case transaction.KindDispute, transaction.KindResolve, transaction.KindChargeback:
		return nil, transaction.NewDomainError(
			transaction.ErrorUnsupportedKind,
			"type",
			fmt.Sprintf("%s %d cannot be registered for disputes", record.Kind, record.ID),
		)
	default:
		return nil, transaction.NewDomainError(transaction.ErrorUnsupportedKind, "type", "unsupported operation")
	}
}

// Dispute marks the entry as disputed and returns its amount change.
func (e *DisputeEntry) Dispute() (decimal.Decimal, error) {
	if e.disputed {
		return decimal.Zero, transaction.NewDomainError(transaction.ErrorAlreadyDisputed, "tx", "transaction is already under dispute")
	}

	e.disputed = true

	return e.amountChange, nil
}

// Resolve clears the dispute and returns the amount change. A resolved entry
// can be disputed again.
func (e *DisputeEntry) Resolve() (decimal.Decimal, error) {
	if !e.disputed {
		return decimal.Zero, transaction.NewDomainError(transaction.ErrorNotDisputed, "tx", "transaction is not under dispute")
	}

	e.disputed = false

	return e.amountChange, nil
}

// Chargeback marks a disputed entry as charged back and returns the amount change.
// The entry stays disputed.
func (e *DisputeEntry) Chargeback() (decimal.Decimal, error) {
	if !e.disputed {
		return decimal.Zero, transaction.NewDomainError(transaction.ErrorNotDisputed, "tx", "transaction is not under dispute")
	}

	e.chargedBack = true

	return e.amountChange, nil
}

// AmountChange is the signed effect the source record had on the available balance.
func (e *DisputeEntry) AmountChange() decimal.Decimal {
	return e.amountChange
}

// Disputed reports whether the entry is currently under dispute.
func (e *DisputeEntry) Disputed() bool {
	return e.disputed
}

// ChargedBack reports whether the entry was charged back.
func (e *DisputeEntry) ChargedBack() bool {
	return e.chargedBack
}
