package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/personal_ledger/internal/apperrors"
	"github.com/SscSPs/personal_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/personal_ledger/internal/core/ports/services"
	"github.com/SscSPs/personal_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ExportLimit caps the number of rows written to a single export.
const ExportLimit = 10000

// transactionService is the posting engine. Every write runs in one unit of
// work that spans the transaction row, the balance deltas and the tag links.
type transactionService struct {
	BaseService
	txManager       portsrepo.TransactionManager
	accountRepo     portsrepo.AccountTransactionSupport
	transactionRepo portsrepo.TransactionRepositoryFacade
	tagRepo         portsrepo.TagRepositoryFacade
	categoryRepo    portsrepo.CategoryReader
}

// NewTransactionService creates the posting engine.
func NewTransactionService(
	txManager portsrepo.TransactionManager,
	accountRepo portsrepo.AccountTransactionSupport,
	transactionRepo portsrepo.TransactionRepositoryFacade,
	tagRepo portsrepo.TagRepositoryFacade,
	categoryRepo portsrepo.CategoryReader,
	options ...ServiceOption,
) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		txManager:       txManager,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		tagRepo:         tagRepo,
		categoryRepo:    categoryRepo,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// CreateTransaction validates the request in a fixed order (type, required
// accounts, account ownership, funds) and only then writes.
func (s *transactionService) CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	fromID, toID := nonEmpty(req.FromAccountID), nonEmpty(req.ToAccountID)
	if err := domain.ValidatePosting(req.Type, req.Amount, fromID, toID); err != nil {
		s.LogDebug(ctx, "Rejected transaction", slog.String("user_id", userID), slog.String("reason", err.Error()))
		return nil, err
	}

	categoryID := nonEmpty(req.CategoryID)
	if err := s.checkCategory(ctx, userID, categoryID); err != nil {
		return nil, err
	}
	relatedID := nonEmpty(req.RelatedTransactionID)
	if err := s.checkRelatedTransaction(ctx, userID, relatedID); err != nil {
		return nil, err
	}

	now := s.Now()
	txn := domain.Transaction{
		TransactionID:        uuid.NewString(),
		UserID:               userID,
		Type:                 req.Type,
		Amount:               req.Amount,
		FromAccountID:        fromID,
		ToAccountID:          toID,
		CategoryID:           categoryID,
		TransactionDate:      now,
		Notes:                req.Notes,
		Location:             req.Location,
		Merchant:             req.Merchant,
		ReceiptNumber:        req.ReceiptNumber,
		RelatedTransactionID: relatedID,
		Tags:                 domain.NormalizeTagNames(req.Tags),
		AuditFields:          domain.AuditFields{CreatedAt: now, UpdatedAt: now},
	}
	if req.TransactionDate != nil {
		txn.TransactionDate = *req.TransactionDate
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin posting")
		return nil, err
	}
	defer s.rollback(ctx, s.txManager, tx)

	accounts, err := s.lockAccounts(ctx, tx, userID, txn.FromAccountID, txn.ToAccountID)
	if err != nil {
		return nil, err
	}

	debitID, _ := domain.PostingLegs(txn.Type, txn.FromAccountID, txn.ToAccountID)
	if debitID != "" {
		source := accounts[debitID]
		if source.Balance.LessThan(txn.Amount) {
			s.LogDebug(ctx, "Insufficient funds",
				slog.String("account_id", source.AccountID),
				slog.String("required", txn.Amount.String()),
				slog.String("available", source.Balance.String()))
			return nil, &apperrors.InsufficientFundsError{
				AccountID:   source.AccountID,
				AccountName: source.Name,
				Required:    txn.Amount,
				Available:   source.Balance,
			}
		}
	}

	if err := s.transactionRepo.SaveTransactionInTx(ctx, tx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.String("transaction_id", txn.TransactionID))
		return nil, err
	}
	if err := s.accountRepo.ApplyBalanceDeltasInTx(ctx, tx, txn.Effect(), now); err != nil {
		s.LogError(ctx, err, "Failed to apply balance deltas", slog.String("transaction_id", txn.TransactionID))
		return nil, err
	}
	if len(txn.Tags) > 0 {
		if err := s.replaceTags(ctx, tx, userID, txn.TransactionID, txn.Tags); err != nil {
			return nil, err
		}
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit posting", slog.String("transaction_id", txn.TransactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction posted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("type", string(txn.Type)),
		slog.String("amount", txn.Amount.String()))
	return &txn, nil
}

// UpdateTransaction never touches amount, type, accounts or balances.
func (s *transactionService) UpdateTransaction(ctx context.Context, userID string, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	var categoryID *string
	if req.CategoryID != nil {
		categoryID = nonEmpty(req.CategoryID)
		if err := s.checkCategory(ctx, userID, categoryID); err != nil {
			return nil, err
		}
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin transaction update")
		return nil, err
	}
	defer s.rollback(ctx, s.txManager, tx)

	txn, err := s.transactionRepo.FindTransactionForUpdate(ctx, tx, userID, transactionID)
	if err != nil {
		return nil, s.notFoundOr(ctx, err, transactionID)
	}

	if req.CategoryID != nil {
		txn.CategoryID = categoryID
	}
	if req.TransactionDate != nil {
		txn.TransactionDate = *req.TransactionDate
	}
	if req.Notes != nil {
		txn.Notes = *req.Notes
	}
	if req.Location != nil {
		txn.Location = *req.Location
	}
	if req.Merchant != nil {
		txn.Merchant = *req.Merchant
	}
	if req.ReceiptNumber != nil {
		txn.ReceiptNumber = *req.ReceiptNumber
	}
	txn.UpdatedAt = s.Now()

	if err := s.transactionRepo.UpdateTransactionInTx(ctx, tx, *txn); err != nil {
		s.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}
	if req.Tags != nil {
		txn.Tags = domain.NormalizeTagNames(req.Tags)
		if err := s.replaceTags(ctx, tx, userID, transactionID, txn.Tags); err != nil {
			return nil, err
		}
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit transaction update", slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction updated", slog.String("transaction_id", transactionID))
	return txn, nil
}

// DeleteTransaction reverses the stored effect against the current account rows,
// soft-deleted ones included, and removes the row in the same unit of work.
func (s *transactionService) DeleteTransaction(ctx context.Context, userID string, transactionID string) error {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin transaction delete")
		return err
	}
	defer s.rollback(ctx, s.txManager, tx)

	txn, err := s.transactionRepo.FindTransactionForUpdate(ctx, tx, userID, transactionID)
	if err != nil {
		return s.notFoundOr(ctx, err, transactionID)
	}

	inverse := txn.Effect().Inverse()
	locked, err := s.accountRepo.FindAccountsForUpdate(ctx, tx, userID, inverse.AccountIDs())
	if err != nil {
		s.LogError(ctx, err, "Failed to lock accounts for reversal", slog.String("transaction_id", transactionID))
		return err
	}
	for id := range inverse {
		if _, ok := locked[id]; !ok {
			s.GetLogger(ctx).Warn("Account of deleted transaction no longer exists, skipping reversal",
				slog.String("transaction_id", transactionID), slog.String("account_id", id))
			delete(inverse, id)
		}
	}

	if err := s.accountRepo.ApplyBalanceDeltasInTx(ctx, tx, inverse, s.Now()); err != nil {
		s.LogError(ctx, err, "Failed to reverse balance deltas", slog.String("transaction_id", transactionID))
		return err
	}
	if err := s.transactionRepo.DeleteTransactionInTx(ctx, tx, userID, transactionID); err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return s.notFoundOr(ctx, err, transactionID)
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit transaction delete", slog.String("transaction_id", transactionID))
		return err
	}

	s.LogInfo(ctx, "Transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}

func (s *transactionService) GetTransactionByID(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionForUser(ctx, userID, transactionID)
	if err != nil {
		return nil, s.notFoundOr(ctx, err, transactionID)
	}
	return txn, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	filter, err := params.ToFilter()
	if err != nil {
		return nil, err
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}

	txns, nextToken, err := s.transactionRepo.ListTransactions(ctx, userID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("user_id", userID))
		return nil, err
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

func (s *transactionService) ExportTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) ([]domain.Transaction, error) {
	filter, err := params.ToFilter()
	if err != nil {
		return nil, err
	}
	filter.Limit = ExportLimit
	filter.NextToken = nil

	txns, _, err := s.transactionRepo.ListTransactions(ctx, userID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to export transactions", slog.String("user_id", userID))
		return nil, err
	}
	return txns, nil
}

func (s *transactionService) ListTags(ctx context.Context, userID string) ([]domain.Tag, error) {
	return s.tagRepo.ListTags(ctx, userID)
}

// lockAccounts locks every referenced account and fails with ErrAccountNotFound
// if one is missing or belongs to someone else.
func (s *transactionService) lockAccounts(ctx context.Context, tx pgx.Tx, userID string, ids ...*string) (map[string]domain.Account, error) {
	wanted := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != nil {
			wanted = append(wanted, *id)
		}
	}

	accounts, err := s.accountRepo.FindAccountsForUpdate(ctx, tx, userID, wanted)
	if err != nil {
		s.LogError(ctx, err, "Failed to lock accounts", slog.String("user_id", userID))
		return nil, err
	}
	for _, id := range wanted {
		if _, ok := accounts[id]; !ok {
			s.LogDebug(ctx, "Referenced account not found", slog.String("account_id", id), slog.String("user_id", userID))
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrAccountNotFound, id)
		}
	}
	return accounts, nil
}

func (s *transactionService) replaceTags(ctx context.Context, tx pgx.Tx, userID, transactionID string, names []string) error {
	tagIDs := make([]string, 0, len(names))
	if len(names) > 0 {
		tags, err := s.tagRepo.FindOrCreateTagsInTx(ctx, tx, userID, names)
		if err != nil {
			s.LogError(ctx, err, "Failed to resolve tags", slog.String("transaction_id", transactionID))
			return err
		}
		for _, tag := range tags {
			tagIDs = append(tagIDs, tag.TagID)
		}
	}
	if err := s.tagRepo.ReplaceTransactionTagsInTx(ctx, tx, transactionID, tagIDs); err != nil {
		s.LogError(ctx, err, "Failed to link tags", slog.String("transaction_id", transactionID))
		return err
	}
	return nil
}

func (s *transactionService) checkCategory(ctx context.Context, userID string, categoryID *string) error {
	if categoryID == nil {
		return nil
	}
	if _, err := s.categoryRepo.FindCategoryForUser(ctx, userID, *categoryID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: category %s does not exist", apperrors.ErrInvalidTransaction, *categoryID)
		}
		s.LogError(ctx, err, "Failed to look up category", slog.String("category_id", *categoryID))
		return err
	}
	return nil
}

func (s *transactionService) checkRelatedTransaction(ctx context.Context, userID string, relatedID *string) error {
	if relatedID == nil {
		return nil
	}
	if _, err := s.transactionRepo.FindTransactionForUser(ctx, userID, *relatedID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: related transaction %s does not exist", apperrors.ErrInvalidTransaction, *relatedID)
		}
		return err
	}
	return nil
}

// notFoundOr maps a store "not found" to the posting engine's not-found kind.
func (s *transactionService) notFoundOr(ctx context.Context, err error, transactionID string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrAccountNotFound, transactionID)
	}
	s.LogError(ctx, err, "Failed to load transaction", slog.String("transaction_id", transactionID))
	return err
}

// nonEmpty treats a blank reference as absent.
func nonEmpty(p *string) *string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}
