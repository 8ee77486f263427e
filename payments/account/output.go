package account

import (
	"github.com/shopspring/decimal"

	"github.com/blackghost1987/payment-engine/payments/transaction"
)

// OutputPrecision is the number of fractional digits kept in an Output.
const OutputPrecision int32 = 4

// Output is the rounded, read-only view of an Account.
type Output struct {
	Client    transaction.ClientID `json:"client"`
	Available decimal.Decimal      `json:"available"`
	Held      decimal.Decimal      `json:"held"`
	Total     decimal.Decimal      `json:"total"`
	Locked    bool                 `json:"locked"`
}

// Project rounds the balances of a half away from zero to OutputPrecision digits.
// Total is computed from the unrounded balances before rounding.
func Project(a *Account) Output {
	return Output{
		Client:    a.ClientID(),
		Available: a.Available().Round(OutputPrecision),
		Held:      a.Held().Round(OutputPrecision),
		Total:     a.Total().Round(OutputPrecision),
		Locked:    a.Locked(),
	}
}
