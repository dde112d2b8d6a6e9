package services

import (
	"context"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/SscSPs/personal_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves an account owned by userID, or apperrors.ErrAccountNotFound.
	GetAccountByID(ctx context.Context, userID string, accountID string) (*domain.Account, error)

	// ListAccounts retrieves the active accounts of userID, default first.
	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)

	// TotalBalance sums the balances of the active accounts of userID.
	TotalBalance(ctx context.Context, userID string) (decimal.Decimal, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account with its opening balance.
	CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error)

	// UpdateAccount updates descriptive fields and the default flag.
	UpdateAccount(ctx context.Context, userID string, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)

	// DeactivateAccount soft deletes an account.
	DeactivateAccount(ctx context.Context, userID string, accountID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
