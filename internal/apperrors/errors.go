package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller may not act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrInternal is the fallback for persistence and other unexpected failures.
var ErrInternal = errors.New("internal error")

// kindError is a named error that also matches a broader kind via errors.Is.
type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// Posting engine error kinds. Each matches a generic kind as well, so callers
// that only care about "bad input" or "missing" can keep using those.
var (
	// ErrInvalidTransaction covers a malformed type, a missing required account and self-transfers.
	ErrInvalidTransaction error = &kindError{msg: "invalid transaction", kind: ErrValidation}

	// ErrAccountNotFound is returned when an account is missing or not owned by the caller.
	// The posting engine reuses it for transactions that are missing or not owned.
	ErrAccountNotFound error = &kindError{msg: "not found", kind: ErrNotFound}

	// ErrInsufficientFunds is matched by *InsufficientFundsError.
	ErrInsufficientFunds error = &kindError{msg: "insufficient funds", kind: ErrValidation}
)

// InsufficientFundsError carries the amounts involved in a rejected debit.
type InsufficientFundsError struct {
	AccountID   string
	AccountName string
	Required    decimal.Decimal
	Available   decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("Insufficient funds in account '%s'. Required: %s, Available: %s",
		e.AccountName, e.Required.StringFixed(2), e.Available.StringFixed(2))
}

// Is lets errors.Is(err, ErrInsufficientFunds) and errors.Is(err, ErrValidation) match.
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds || target == ErrValidation
}

// AppError is a persistence or infrastructure failure with a status-like code.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches ErrInternal for server-side codes.
func (e *AppError) Is(target error) bool {
	return target == ErrInternal && e.Code >= 500
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
