package services

import (
	"context"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/SscSPs/personal_ledger/internal/dto"
)

// TransactionPostingSvc is the posting engine. Each call is one unit of work.
type TransactionPostingSvc interface {
	// CreateTransaction validates, posts and returns a transaction. It fails with
	// apperrors.ErrInvalidTransaction, apperrors.ErrAccountNotFound or an
	// *apperrors.InsufficientFundsError before anything is written.
	CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error)

	// UpdateTransaction changes non-financial fields only. Balances are never touched.
	UpdateTransaction(ctx context.Context, userID string, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error)

	// DeleteTransaction applies the inverse balance effect and removes the transaction.
	DeleteTransaction(ctx context.Context, userID string, transactionID string) error
}

// TransactionReaderSvc defines read operations for transaction data
type TransactionReaderSvc interface {
	// GetTransactionByID returns a transaction owned by userID, or apperrors.ErrAccountNotFound.
	GetTransactionByID(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns one page of transactions.
	ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// ExportTransactions returns every transaction matching params, ignoring pagination.
	ExportTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) ([]domain.Transaction, error)

	// ListTags returns the tags userID has used, ordered by name.
	ListTags(ctx context.Context, userID string) ([]domain.Tag, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionPostingSvc
	TransactionReaderSvc
}
