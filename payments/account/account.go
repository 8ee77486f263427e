package account

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/blackghost1987/payment-engine/payments/transaction"
)

// Account is the ledger of one client. It is not safe for concurrent use.
type Account struct {
	client    transaction.ClientID
	available decimal.Decimal
	held      decimal.Decimal
	locked    bool
	entries   map[transaction.ID]*DisputeEntry
}

// New returns an unlocked account with zero balances.
func New(client transaction.ClientID) *Account {
	return &Account{
		client:    client,
		available: decimal.Zero,
		held:      decimal.Zero,
		entries:   make(map[transaction.ID]*DisputeEntry),
	}
}

// Apply folds one record into the account. A failed record leaves the account unchanged.
func (a *Account) Apply(record transaction.Record) error {
	if record.Client != a.client {
		return transaction.NewDomainError(
			transaction.ErrorClientIDMismatch,
			"client",
			fmt.Sprintf("record for client %d applied to account %d", record.Client, a.client),
		)
	}

	if a.locked {
		return transaction.NewDomainError(transaction.ErrorAccountLocked, "client", fmt.Sprintf("account %d is locked", a.client))
	}

	switch record.Kind {
	case transaction.KindDeposit:
		return a.deposit(record)
	case transaction.KindWithdrawal:
		return a.withdraw(record)
	case transaction.KindDispute:
		return a.dispute(record)
	case transaction.KindResolve:
		return a.resolve(record)
	case transaction.KindChargeback:
		return a.chargeback(record)
	default:
		return transaction.NewDomainError(transaction.ErrorUnsupportedKind, "type", fmt.Sprintf("unsupported transaction type %q", record.Kind))
	}
}

func (a *Account) deposit(record transaction.Record) error {
	if err := a.checkUnregistered(record.ID); err != nil {
		return err
	}

	entry, err := NewDisputeEntry(record)
	if err != nil {
		return err
	}

	a.available = a.available.Add(entry.AmountChange())
	a.entries[record.ID] = entry

	return nil
}

func (a *Account) withdraw(record transaction.Record) error {
	if err := a.checkUnregistered(record.ID); err != nil {
		return err
	}

	entry, err := NewDisputeEntry(record)
	if err != nil {
		return err
	}

	candidate := a.available.Add(entry.AmountChange())
	if candidate.IsNegative() {
		return transaction.NewDomainError(
			transaction.ErrorInsufficientFunds,
			"amount",
			fmt.Sprintf("withdrawal %d exceeds available balance %s", record.ID, a.available),
		)
	}

	a.available = candidate
	a.entries[record.ID] = entry

	return nil
}

func (a *Account) dispute(record transaction.Record) error {
	entry, err := a.lookup(record.ID)
	if err != nil {
		return err
	}

	change, err := entry.Dispute()
	if err != nil {
		return err
	}

	a.available = a.available.Sub(change)
	a.held = a.held.Add(change)

	return nil
}

func (a *Account) resolve(record transaction.Record) error {
	entry, err := a.lookup(record.ID)
	if err != nil {
		return err
	}

	change, err := entry.Resolve()
	if err != nil {
		return err
	}

	a.available = a.available.Add(change)
	a.held = a.held.Sub(change)

	return nil
}

func (a *Account) chargeback(record transaction.Record) error {
	entry, err := a.lookup(record.ID)
	if err != nil {
		return err
	}

	change, err := entry.Chargeback()
	if err != nil {
		return err
	}

	a.held = a.held.Sub(change)
	a.locked = true

	return nil
}

func (a *Account) checkUnregistered(id transaction.ID) error {
	if _, exists := a.entries[id]; exists {
		return transaction.NewDomainError(transaction.ErrorDuplicatedTransactionID, "tx", fmt.Sprintf("transaction %d is already registered", id))
	}

	return nil
}

func (a *Account) lookup(id transaction.ID) (*DisputeEntry, error) {
	entry, ok := a.entries[id]
	if !ok {
		return nil, transaction.NewDomainError(transaction.ErrorUnknownTransactionID, "tx", fmt.Sprintf("transaction %d is not registered", id))
	}

	return entry, nil
}

// ClientID returns the owning client.
func (a *Account) ClientID() transaction.ClientID {
	return a.client
}

// Available returns the unrounded available balance.
func (a *Account) Available() decimal.Decimal {
	return a.available
}

// Held returns the unrounded held balance.
func (a *Account) Held() decimal.Decimal {
	return a.held
}

// Total returns Available plus Held.
func (a *Account) Total() decimal.Decimal {
	return a.available.Add(a.held)
}

// Locked reports whether a chargeback froze the account.
func (a *Account) Locked() bool {
	return a.locked
}

// Entry returns a copy of the dispute entry registered under id.
func (a *Account) Entry(id transaction.ID) (DisputeEntry, bool) {
	entry, ok := a.entries[id]
	if !ok {
		return DisputeEntry{}, false
	}

	return *entry, true
}

// Entries returns the number of registered deposits and withdrawals.
func (a *Account) Entries() int {
	return len(a.entries)
}
