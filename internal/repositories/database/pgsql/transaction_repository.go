package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/personal_ledger/internal/apperrors"
	"github.com/SscSPs/personal_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/personal_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionRepository struct {
	pool *pgxpool.Pool
}

func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{pool: pool}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

// transactionSelect reads a transaction together with its sorted tag names.
const transactionSelect = `
	SELECT t.transaction_id, t.user_id, t.type, t.amount, t.from_account_id, t.to_account_id,
	       t.category_id, t.transaction_date, t.notes, t.location, t.merchant, t.receipt_number,
	       t.related_transaction_id, t.created_at, t.updated_at,
	       COALESCE((
	           SELECT array_agg(tg.name ORDER BY tg.name)
	           FROM transaction_tags tt
	           JOIN tags tg ON tg.tag_id = tt.tag_id
	           WHERE tt.transaction_id = t.transaction_id
	       ), '{}') AS tags
	FROM transactions t
`

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(
		&t.TransactionID,
		&t.UserID,
		&t.Type,
		&t.Amount,
		&t.FromAccountID,
		&t.ToAccountID,
		&t.CategoryID,
		&t.TransactionDate,
		&t.Notes,
		&t.Location,
		&t.Merchant,
		&t.ReceiptNumber,
		&t.RelatedTransactionID,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.Tags,
	)
	return t, err
}

func (r *PgxTransactionRepository) FindTransactionForUser(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error) {
	query := transactionSelect + ` WHERE t.transaction_id = $1 AND t.user_id = $2;`
	txn, err := scanTransaction(r.pool.QueryRow(ctx, query, transactionID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	return &txn, nil
}

// FindTransactionForUpdate locks the transaction row for the rest of tx.
func (r *PgxTransactionRepository) FindTransactionForUpdate(ctx context.Context, tx pgx.Tx, userID string, transactionID string) (*domain.Transaction, error) {
	query := transactionSelect + ` WHERE t.transaction_id = $1 AND t.user_id = $2 FOR UPDATE OF t;`
	txn, err := scanTransaction(tx.QueryRow(ctx, query, transactionID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock transaction %s: %w", transactionID, err)
	}
	return &txn, nil
}

// ListTransactions returns transactions newest first using keyset pagination on
// (transaction_date, created_at). A non-positive limit returns every match.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	args := []interface{}{userID}
	conditions := []string{"t.user_id = $1"}
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Type != nil {
		conditions = append(conditions, "t.type = "+arg(*filter.Type))
	}
	if filter.CategoryID != nil {
		conditions = append(conditions, "t.category_id = "+arg(*filter.CategoryID))
	}
	if filter.AccountID != nil {
		p := arg(*filter.AccountID)
		conditions = append(conditions, "(t.from_account_id = "+p+" OR t.to_account_id = "+p+")")
	}
	if filter.StartDate != nil {
		conditions = append(conditions, "t.transaction_date >= "+arg(*filter.StartDate))
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "t.transaction_date <= "+arg(*filter.EndDate))
	}
	if filter.Tag != nil {
		conditions = append(conditions, `EXISTS (
			SELECT 1 FROM transaction_tags tt JOIN tags tg ON tg.tag_id = tt.tag_id
			WHERE tt.transaction_id = t.transaction_id AND tg.name = `+arg(*filter.Tag)+`)`)
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*filter.NextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		conditions = append(conditions, "(t.transaction_date, t.created_at) < ("+arg(lastDate)+", "+arg(lastCreatedAt)+")")
	}

	query := transactionSelect + " WHERE " + strings.Join(conditions, " AND ") +
		" ORDER BY t.transaction_date DESC, t.created_at DESC"
	paged := filter.Limit > 0
	if paged {
		// One extra row tells whether there is a next page.
		query += " LIMIT " + arg(filter.Limit+1)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query transactions", err)
	}
	defer rows.Close()

	txns := make([]domain.Transaction, 0)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}

	var nextToken *string
	if paged && len(txns) > filter.Limit {
		txns = txns[:filter.Limit]
		last := txns[len(txns)-1]
		token := pagination.EncodeToken(last.TransactionDate, last.CreatedAt)
		nextToken = &token
	}
	return txns, nextToken, nil
}

func (r *PgxTransactionRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	query := `
		INSERT INTO transactions (transaction_id, user_id, type, amount, from_account_id, to_account_id,
			category_id, transaction_date, notes, location, merchant, receipt_number,
			related_transaction_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := tx.Exec(ctx, query,
		txn.TransactionID,
		txn.UserID,
		txn.Type,
		txn.Amount,
		nullable(txn.FromAccountID),
		nullable(txn.ToAccountID),
		nullable(txn.CategoryID),
		txn.TransactionDate,
		txn.Notes,
		txn.Location,
		txn.Merchant,
		txn.ReceiptNumber,
		nullable(txn.RelatedTransactionID),
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transaction %s already exists", apperrors.ErrDuplicate, txn.TransactionID)
		}
		return fmt.Errorf("failed to save transaction %s: %w", txn.TransactionID, err)
	}
	return nil
}

// UpdateTransactionInTx never writes type, amount or accounts.
func (r *PgxTransactionRepository) UpdateTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	query := `
		UPDATE transactions
		SET category_id = $3, transaction_date = $4, notes = $5, location = $6,
		    merchant = $7, receipt_number = $8, updated_at = $9
		WHERE transaction_id = $1 AND user_id = $2;
	`
	tag, err := tx.Exec(ctx, query,
		txn.TransactionID,
		txn.UserID,
		nullable(txn.CategoryID),
		txn.TransactionDate,
		txn.Notes,
		txn.Location,
		txn.Merchant,
		txn.ReceiptNumber,
		txn.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", txn.TransactionID, err)
	}
	return requireRow(tag, "transaction", txn.TransactionID)
}

func (r *PgxTransactionRepository) DeleteTransactionInTx(ctx context.Context, tx pgx.Tx, userID string, transactionID string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM transaction_tags WHERE transaction_id = $1;`, transactionID); err != nil {
		return fmt.Errorf("failed to delete tags of transaction %s: %w", transactionID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1 AND user_id = $2;`, transactionID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	return requireRow(tag, "transaction", transactionID)
}
