package transaction

import (
	"errors"
	"fmt"
)

// ErrorCode is a domain error code produced while applying a record to an account.
type ErrorCode string

const (
	// ErrorMissingAmount indicates a deposit or withdrawal without an amount.
	ErrorMissingAmount ErrorCode = "MISSING_AMOUNT"
	// ErrorInsufficientFunds indicates a withdrawal larger than the available balance.
	ErrorInsufficientFunds ErrorCode = "INSUFFICIENT_FUNDS"
	// ErrorClientIDMismatch indicates a record routed to another client's account.
	ErrorClientIDMismatch ErrorCode = "CLIENT_ID_MISMATCH"
	// ErrorAccountLocked indicates the account was locked by a chargeback.
	ErrorAccountLocked ErrorCode = "ACCOUNT_LOCKED"
	// ErrorUnknownTransactionID indicates a reference to a transaction the account never registered.
	ErrorUnknownTransactionID ErrorCode = "UNKNOWN_TRANSACTION_ID"
	// ErrorDuplicatedTransactionID indicates a deposit or withdrawal reusing a registered id.
	ErrorDuplicatedTransactionID ErrorCode = "DUPLICATED_TRANSACTION_ID"
	// ErrorAlreadyDisputed indicates a dispute of a transaction already under dispute.
	ErrorAlreadyDisputed ErrorCode = "ALREADY_DISPUTED"
	// ErrorNotDisputed indicates a resolve or chargeback of a transaction not under dispute.
	ErrorNotDisputed ErrorCode = "NOT_DISPUTED"
	// ErrorUnsupportedKind indicates a record kind outside the closed Kind set.
	ErrorUnsupportedKind ErrorCode = "UNSUPPORTED_KIND"
)

// Sentinels for errors.Is. A DomainError matches the sentinel with the same Code
// regardless of Field and Message.
var (
	ErrMissingAmount           error = DomainError{Code: ErrorMissingAmount, Message: "missing amount"}
	ErrInsufficientFunds       error = DomainError{Code: ErrorInsufficientFunds, Message: "insufficient funds"}
	ErrClientIDMismatch        error = DomainError{Code: ErrorClientIDMismatch, Message: "client id mismatch"}
	ErrAccountLocked           error = DomainError{Code: ErrorAccountLocked, Message: "account locked"}
	ErrUnknownTransactionID    error = DomainError{Code: ErrorUnknownTransactionID, Message: "unknown transaction id"}
	ErrDuplicatedTransactionID error = DomainError{Code: ErrorDuplicatedTransactionID, Message: "duplicated transaction id"}
	ErrAlreadyDisputed         error = DomainError{Code: ErrorAlreadyDisputed, Message: "already disputed"}
	ErrNotDisputed             error = DomainError{Code: ErrorNotDisputed, Message: "not disputed"}
	ErrUnsupportedKind         error = DomainError{Code: ErrorUnsupportedKind, Message: "unsupported kind"}
)

// DomainError represents a structured ledger domain error.
type DomainError struct {
	Code    ErrorCode
	Field   string
	Message string
}

// Error returns the formatted domain error string.
func (e DomainError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}

	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Field)
}

// Is reports whether target is a DomainError with the same Code.
func (e DomainError) Is(target error) bool {
	var other DomainError
	if !errors.As(target, &other) {
		return false
	}

	return e.Code == other.Code
}

// NewDomainError creates a domain error with code, field, and message.
func NewDomainError(code ErrorCode, field, message string) error {
	return DomainError{Code: code, Field: field, Message: message}
}

// CodeOf extracts the ErrorCode of err, or "" when err is not a DomainError.
func CodeOf(err error) ErrorCode {
	var domainErr DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}

	return ""
}
