//go:build unit

package transaction

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input     string
		expected  Kind
		expectErr bool
	}{
		{input: "deposit", expected: KindDeposit},
		{input: "Withdrawal", expected: KindWithdrawal},
		{input: "  DISPUTE ", expected: KindDispute},
		{input: "resolve", expected: KindResolve},
		{input: "chargeBack", expected: KindChargeback},
		{input: "transfer", expectErr: true},
		{input: "", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.input), func(t *testing.T) {
			t.Parallel()

			kind, err := ParseKind(tt.input)
			if tt.expectErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnsupportedKind)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, kind)
		})
	}
}

func TestKindCarriesAmount(t *testing.T) {
	t.Parallel()

	expected := map[Kind]bool{
		KindDeposit:    true,
		KindWithdrawal: true,
		KindDispute:    false,
		KindResolve:    false,
		KindChargeback: false,
	}

	require.Len(t, Kinds, len(expected))

	for _, kind := range Kinds {
		assert.Equal(t, expected[kind], kind.CarriesAmount(), kind.String())
	}

	assert.False(t, Kind("bogus").CarriesAmount())
}

func TestRecordAmountValue(t *testing.T) {
	t.Parallel()

	amount, err := Record{Kind: KindDeposit, Client: 1, ID: 1, Amount: decPtr("98765.4321")}.AmountValue()
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.RequireFromString("98765.4321")))

	_, err = Record{Kind: KindWithdrawal, Client: 1, ID: 2}.AmountValue()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingAmount)
	assert.Equal(t, ErrorMissingAmount, CodeOf(err))
}

func TestRecordHasUnexpectedAmount(t *testing.T) {
	t.Parallel()

	assert.False(t, Record{Kind: KindDeposit, Amount: decPtr("1")}.HasUnexpectedAmount())
	assert.False(t, Record{Kind: KindDispute}.HasUnexpectedAmount())
	assert.True(t, Record{Kind: KindDispute, Amount: decPtr("1")}.HasUnexpectedAmount())
	assert.True(t, Record{Kind: KindResolve, Amount: decPtr("0")}.HasUnexpectedAmount())
	assert.True(t, Record{Kind: KindChargeback, Amount: decPtr("2.5")}.HasUnexpectedAmount())
}

func TestDomainError_ErrorString(t *testing.T) {
	t.Parallel()

	t.Run("with field", func(t *testing.T) {
		t.Parallel()

		de := DomainError{Code: ErrorMissingAmount, Field: "amount", Message: "deposit 1 has no amount"}
		assert.Equal(t, "MISSING_AMOUNT: deposit 1 has no amount (amount)", de.Error())
	})

	t.Run("without field", func(t *testing.T) {
		t.Parallel()

		de := DomainError{Code: ErrorInsufficientFunds, Message: "not enough funds"}
		assert.Equal(t, "INSUFFICIENT_FUNDS: not enough funds", de.Error())
	})
}

func TestDomainError_IsMatchesByCode(t *testing.T) {
	t.Parallel()

	err := NewDomainError(ErrorAccountLocked, "client", "client 5 is locked")

	assert.ErrorIs(t, err, ErrAccountLocked)
	assert.NotErrorIs(t, err, ErrNotDisputed)

	wrapped := fmt.Errorf("apply: %w", err)
	assert.ErrorIs(t, wrapped, ErrAccountLocked)
	assert.Equal(t, ErrorAccountLocked, CodeOf(wrapped))

	var de DomainError
	require.True(t, errors.As(wrapped, &de))
	assert.Equal(t, "client", de.Field)
}

func TestCodeOf_NonDomainError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}
