package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/personal_ledger/internal/apperrors"
	"github.com/SscSPs/personal_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxBudgetRepository struct {
	pool *pgxpool.Pool
}

func newPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepositoryFacade {
	return &PgxBudgetRepository{pool: pool}
}

var _ portsrepo.BudgetRepositoryFacade = (*PgxBudgetRepository)(nil)

const budgetColumns = `budget_id, user_id, category_id, amount, period, start_date, alert_threshold, is_active, created_at, updated_at`

func scanBudget(row pgx.Row) (domain.Budget, error) {
	var b domain.Budget
	err := row.Scan(
		&b.BudgetID,
		&b.UserID,
		&b.CategoryID,
		&b.Amount,
		&b.Period,
		&b.StartDate,
		&b.AlertThreshold,
		&b.IsActive,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, err
}

func (r *PgxBudgetRepository) FindBudgetForUser(ctx context.Context, userID string, budgetID string) (*domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE budget_id = $1 AND user_id = $2;`
	b, err := scanBudget(r.pool.QueryRow(ctx, query, budgetID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find budget %s: %w", budgetID, err)
	}
	return &b, nil
}

func (r *PgxBudgetRepository) ListBudgets(ctx context.Context, userID string, period *domain.BudgetPeriod, activeOnly bool) ([]domain.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE user_id = $1
		  AND ($2::text IS NULL OR period = $2)
		  AND (NOT $3 OR is_active = TRUE)
		ORDER BY created_at;
	`
	var periodArg *string
	if period != nil {
		s := string(*period)
		periodArg = &s
	}

	rows, err := r.pool.Query(ctx, query, userID, periodArg, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	budgets := make([]domain.Budget, 0)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget row: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budget rows: %w", err)
	}
	return budgets, nil
}

func (r *PgxBudgetRepository) ActiveBudgetExists(ctx context.Context, userID string, categoryID string, period domain.BudgetPeriod) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM budgets
			WHERE user_id = $1 AND category_id = $2 AND period = $3 AND is_active = TRUE
		);
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, categoryID, period).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check budget uniqueness: %w", err)
	}
	return exists, nil
}

func (r *PgxBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	query := `
		INSERT INTO budgets (` + budgetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.pool.Exec(ctx, query,
		budget.BudgetID,
		budget.UserID,
		budget.CategoryID,
		budget.Amount,
		budget.Period,
		budget.StartDate,
		budget.AlertThreshold,
		budget.IsActive,
		budget.CreatedAt,
		budget.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: budget %s already exists", apperrors.ErrDuplicate, budget.BudgetID)
		}
		return fmt.Errorf("failed to save budget %s: %w", budget.BudgetID, err)
	}
	return nil
}

func (r *PgxBudgetRepository) UpdateBudget(ctx context.Context, budget domain.Budget) error {
	query := `
		UPDATE budgets
		SET amount = $3, alert_threshold = $4, is_active = $5, updated_at = $6
		WHERE budget_id = $1 AND user_id = $2;
	`
	tag, err := r.pool.Exec(ctx, query,
		budget.BudgetID,
		budget.UserID,
		budget.Amount,
		budget.AlertThreshold,
		budget.IsActive,
		budget.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update budget %s: %w", budget.BudgetID, err)
	}
	return requireRow(tag, "budget", budget.BudgetID)
}

func (r *PgxBudgetRepository) DeactivateBudget(ctx context.Context, userID string, budgetID string, now time.Time) error {
	query := `UPDATE budgets SET is_active = FALSE, updated_at = $3 WHERE budget_id = $1 AND user_id = $2;`
	tag, err := r.pool.Exec(ctx, query, budgetID, userID, now)
	if err != nil {
		return fmt.Errorf("failed to deactivate budget %s: %w", budgetID, err)
	}
	return requireRow(tag, "budget", budgetID)
}
