package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	assert.ErrorIs(t, ErrInvalidTransaction, ErrValidation)
	assert.ErrorIs(t, ErrAccountNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrInsufficientFunds, ErrValidation)
	assert.NotErrorIs(t, ErrAccountNotFound, ErrValidation)

	wrapped := fmt.Errorf("%w: account abc", ErrAccountNotFound)
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.Equal(t, "not found: account abc", wrapped.Error())
}

func TestInsufficientFundsError(t *testing.T) {
	var err error = &InsufficientFundsError{
		AccountID:   "acc-1",
		AccountName: "Wallet",
		Required:    decimal.RequireFromString("200"),
		Available:   decimal.RequireFromString("50.5"),
	}

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Insufficient funds in account 'Wallet'. Required: 200.00, Available: 50.50", err.Error())

	var fundsErr *InsufficientFundsError
	assert.True(t, errors.As(fmt.Errorf("posting failed: %w", err), &fundsErr))
	assert.Equal(t, "acc-1", fundsErr.AccountID)
}

func TestAppError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewAppError(500, "failed to commit transaction", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to commit transaction: connection reset", err.Error())
	assert.Equal(t, "boom", NewAppError(500, "boom", nil).Error())
}

func TestAppError_InternalKind(t *testing.T) {
	server := fmt.Errorf("saving transaction: %w", NewAppError(500, "failed to begin transaction", errors.New("dial tcp")))
	assert.ErrorIs(t, server, ErrInternal)

	client := NewAppError(400, "invalid nextToken", errors.New("illegal base64 data"))
	assert.NotErrorIs(t, client, ErrInternal)
	assert.NotErrorIs(t, ErrValidation, ErrInternal)
}
