package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountForUser returns the account if it exists and belongs to userID.
	// A missing or foreign account yields (nil, nil), never an error.
	FindAccountForUser(ctx context.Context, userID string, accountID string) (*domain.Account, error)

	// ListActiveAccounts returns the user's active accounts, default first, then by creation time.
	ListActiveAccounts(ctx context.Context, userID string) ([]domain.Account, error)

	// SumActiveBalances totals the balances of the user's active accounts.
	SumActiveBalances(ctx context.Context, userID string) (decimal.Decimal, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccountInTx persists a new account, balance included.
	SaveAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error

	// UpdateAccountInTx updates descriptive fields and the default flag. Balance is never written.
	UpdateAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error

	// ClearDefaultAccountsInTx unsets is_default on every account of userID except exceptAccountID.
	ClearDefaultAccountsInTx(ctx context.Context, tx pgx.Tx, userID string, exceptAccountID string, now time.Time) error

	// DeactivateAccount soft deletes an account.
	DeactivateAccount(ctx context.Context, userID string, accountID string, now time.Time) error
}

// AccountTransactionSupport holds the balance primitives used by the posting engine.
type AccountTransactionSupport interface {
	// FindAccountsForUpdate locks the user's accounts among accountIDs, active or not.
	// Accounts that are missing or foreign are simply absent from the result.
	FindAccountsForUpdate(ctx context.Context, tx pgx.Tx, userID string, accountIDs []string) (map[string]domain.Account, error)

	// ApplyBalanceDeltasInTx adds each delta to the matching account balance.
	ApplyBalanceDeltasInTx(ctx context.Context, tx pgx.Tx, effect domain.BalanceEffect, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}

// AccountRepositoryWithTx extends AccountRepositoryFacade with transaction capabilities
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	TransactionManager
}
