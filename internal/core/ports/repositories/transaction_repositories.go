package repositories

import (
	"context"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionForUser returns a transaction with its tags, or apperrors.ErrNotFound.
	FindTransactionForUser(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns a page of transactions, newest first, and the token of the next page if any.
	ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, *string, error)
}

// TransactionWriter defines write operations for transaction data. All of them
// run inside a caller-owned unit of work.
type TransactionWriter interface {
	// FindTransactionForUpdate locks the transaction row, or returns apperrors.ErrNotFound.
	FindTransactionForUpdate(ctx context.Context, tx pgx.Tx, userID string, transactionID string) (*domain.Transaction, error)

	// SaveTransactionInTx inserts the transaction row. Tags are stored separately.
	SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error

	// UpdateTransactionInTx rewrites the non-financial columns of a transaction.
	UpdateTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error

	// DeleteTransactionInTx removes the row and its tag associations.
	DeleteTransactionInTx(ctx context.Context, tx pgx.Tx, userID string, transactionID string) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
