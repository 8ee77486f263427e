package csv

import (
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/blackghost1987/payment-engine/payments/account"
	"github.com/blackghost1987/payment-engine/payments/transaction"
)

// ErrWrite is wrapped by every error WriteAccounts returns.
var ErrWrite = errors.New("write accounts")

// Header is the first row written by WriteAccounts.
var Header = []string{"client", "available", "held", "total", "locked"}

// WriteAccounts projects every account and writes one row per client, in
// ascending client order.
func WriteAccounts(w io.Writer, accounts map[transaction.ClientID]*account.Account) error {
	clients := make([]transaction.ClientID, 0, len(accounts))
	for client := range accounts {
		clients = append(clients, client)
	}

	slices.Sort(clients)

	outputs := make([]account.Output, 0, len(clients))
	for _, client := range clients {
		outputs = append(outputs, account.Project(accounts[client]))
	}

	return WriteOutputs(w, outputs)
}

// WriteOutputs writes already projected accounts in the given order.
func WriteOutputs(w io.Writer, outputs []account.Output) error {
	writer := stdcsv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	for _, out := range outputs {
		if err := writer.Write(outputRow(out)); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	return nil
}

func outputRow(out account.Output) []string {
	return []string{
		strconv.FormatUint(uint64(out.Client), 10),
		out.Available.StringFixed(account.OutputPrecision),
		out.Held.StringFixed(account.OutputPrecision),
		out.Total.StringFixed(account.OutputPrecision),
		strconv.FormatBool(out.Locked),
	}
}
