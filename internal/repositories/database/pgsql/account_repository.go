package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/personal_ledger/internal/apperrors"
	"github.com/SscSPs/personal_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{pool: pool}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, user_id, name, account_type, account_number, balance, currency,
	icon, color, notes, is_default, is_active, created_at, updated_at`

func scanAccount(row pgx.Row) (domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.AccountID,
		&a.UserID,
		&a.Name,
		&a.AccountType,
		&a.AccountNumber,
		&a.Balance,
		&a.Currency,
		&a.Icon,
		&a.Color,
		&a.Notes,
		&a.IsDefault,
		&a.IsActive,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

// SaveAccountInTx inserts a new account.
func (r *PgxAccountRepository) SaveAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := tx.Exec(ctx, query,
		account.AccountID,
		account.UserID,
		account.Name,
		account.AccountType,
		account.AccountNumber,
		account.Balance,
		account.Currency,
		account.Icon,
		account.Color,
		account.Notes,
		account.IsDefault,
		account.IsActive,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, account.AccountID)
		}
		return fmt.Errorf("failed to save account %s: %w", account.AccountID, err)
	}
	return nil
}

// FindAccountForUser retrieves an account owned by userID. Absence is not an error.
func (r *PgxAccountRepository) FindAccountForUser(ctx context.Context, userID string, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 AND user_id = $2;`

	account, err := scanAccount(r.pool.QueryRow(ctx, query, accountID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return &account, nil
}

// ListActiveAccounts lists active accounts, default first, then oldest first.
func (r *PgxAccountRepository) ListActiveAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY is_default DESC, created_at ASC;
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

func (r *PgxAccountRepository) SumActiveBalances(ctx context.Context, userID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(balance), 0) FROM accounts WHERE user_id = $1 AND is_active = TRUE;`
	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum balances: %w", err)
	}
	return total, nil
}

// UpdateAccountInTx updates descriptive fields. The balance column is left alone.
func (r *PgxAccountRepository) UpdateAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $3, account_type = $4, account_number = $5, icon = $6, color = $7,
		    notes = $8, is_default = $9, updated_at = $10
		WHERE account_id = $1 AND user_id = $2;
	`
	tag, err := tx.Exec(ctx, query,
		account.AccountID,
		account.UserID,
		account.Name,
		account.AccountType,
		account.AccountNumber,
		account.Icon,
		account.Color,
		account.Notes,
		account.IsDefault,
		account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", account.AccountID, err)
	}
	return requireRow(tag, "account", account.AccountID)
}

func (r *PgxAccountRepository) ClearDefaultAccountsInTx(ctx context.Context, tx pgx.Tx, userID string, exceptAccountID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_default = FALSE, updated_at = $3
		WHERE user_id = $1 AND account_id <> $2 AND is_default = TRUE;
	`
	if _, err := tx.Exec(ctx, query, userID, exceptAccountID, now); err != nil {
		return fmt.Errorf("failed to clear default accounts: %w", err)
	}
	return nil
}

// DeactivateAccount marks an account as inactive. It also stops being the default.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, userID string, accountID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, is_default = FALSE, updated_at = $3
		WHERE account_id = $1 AND user_id = $2;
	`
	tag, err := r.pool.Exec(ctx, query, accountID, userID, now)
	if err != nil {
		return fmt.Errorf("failed to deactivate account %s: %w", accountID, err)
	}
	return requireRow(tag, "account", accountID)
}

// FindAccountsForUpdate locks the requested rows with SELECT ... FOR UPDATE.
// Rows are locked in account_id order so two postings touching the same pair
// of accounts cannot deadlock.
func (r *PgxAccountRepository) FindAccountsForUpdate(ctx context.Context, tx pgx.Tx, userID string, accountIDs []string) (map[string]domain.Account, error) {
	accountsMap := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return accountsMap, nil
	}
	ids := append([]string(nil), accountIDs...)
	sort.Strings(ids)

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ANY($1) AND user_id = $2
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, ids, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked account row: %w", err)
		}
		accountsMap[account.AccountID] = account
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked account rows: %w", err)
	}

	if len(accountsMap) != len(ids) {
		slog.DebugContext(ctx, "Some accounts requested for update lock were not found",
			slog.Int("requested", len(ids)), slog.Int("found", len(accountsMap)))
	}
	return accountsMap, nil
}

// ApplyBalanceDeltasInTx adds each delta to its account in one batch.
func (r *PgxAccountRepository) ApplyBalanceDeltasInTx(ctx context.Context, tx pgx.Tx, effect domain.BalanceEffect, now time.Time) error {
	if len(effect) == 0 {
		return nil
	}

	query := `
		UPDATE accounts
		SET balance = balance + $2, updated_at = $3
		WHERE account_id = $1;
	`

	ids := effect.AccountIDs()
	sort.Strings(ids)

	batch := &pgx.Batch{}
	queued := make([]string, 0, len(ids))
	for _, accountID := range ids {
		delta := effect[accountID]
		if delta.IsZero() {
			continue
		}
		batch.Queue(query, accountID, delta, now)
		queued = append(queued, accountID)
	}
	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to update balance for account %s: %w", queued[i], err)
			}
		} else if ct.RowsAffected() == 0 && batchErr == nil {
			batchErr = fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, queued[i])
		}
	}
	return finishBatch(br, batchErr, "balance update")
}
