package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxStatisticsRepository runs read-only aggregates over transactions.
type PgxStatisticsRepository struct {
	pool *pgxpool.Pool
}

func newPgxStatisticsRepository(pool *pgxpool.Pool) portsrepo.StatisticsReader {
	return &PgxStatisticsRepository{pool: pool}
}

var _ portsrepo.StatisticsReader = (*PgxStatisticsRepository)(nil)

func (r *PgxStatisticsRepository) SumByType(ctx context.Context, userID string, txType domain.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND type = $2 AND transaction_date BETWEEN $3 AND $4;
	`
	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, userID, txType, start, end).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum %s transactions: %w", txType, err)
	}
	return total, nil
}

// ExpenseTotalsByRootCategory groups each expense under COALESCE(parent_id, category_id),
// i.e. its root, largest total first.
func (r *PgxStatisticsRepository) ExpenseTotalsByRootCategory(ctx context.Context, userID string, start, end time.Time) ([]domain.CategoryTotal, error) {
	query := `
		SELECT root.category_id, root.name, root.icon, root.color, SUM(t.amount) AS total
		FROM transactions t
		JOIN categories c ON c.category_id = t.category_id
		JOIN categories root ON root.category_id = COALESCE(c.parent_id, c.category_id)
		WHERE t.user_id = $1 AND t.type = 'expense' AND t.transaction_date BETWEEN $2 AND $3
		GROUP BY root.category_id, root.name, root.icon, root.color
		HAVING SUM(t.amount) > 0
		ORDER BY total DESC, root.name;
	`
	rows, err := r.pool.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to total expenses by category: %w", err)
	}
	defer rows.Close()

	totals := make([]domain.CategoryTotal, 0)
	for rows.Next() {
		var ct domain.CategoryTotal
		if err := rows.Scan(&ct.CategoryID, &ct.Name, &ct.Icon, &ct.Color, &ct.Total); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals = append(totals, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category totals: %w", err)
	}
	return totals, nil
}

// DailyTotals buckets by calendar day in the database session time zone.
func (r *PgxStatisticsRepository) DailyTotals(ctx context.Context, userID string, txType domain.TransactionType, start, end time.Time) ([]domain.DailyTotal, error) {
	query := `
		SELECT date_trunc('day', transaction_date) AS day, SUM(amount)
		FROM transactions
		WHERE user_id = $1 AND type = $2 AND transaction_date BETWEEN $3 AND $4
		GROUP BY day
		ORDER BY day;
	`
	rows, err := r.pool.Query(ctx, query, userID, txType, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily totals: %w", err)
	}
	defer rows.Close()

	days := make([]domain.DailyTotal, 0)
	for rows.Next() {
		var d domain.DailyTotal
		if err := rows.Scan(&d.Day, &d.Total); err != nil {
			return nil, fmt.Errorf("failed to scan daily total: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily totals: %w", err)
	}
	return days, nil
}

func (r *PgxStatisticsRepository) SumCategoryExpenses(ctx context.Context, userID string, categoryID string, start, end time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND type = 'expense' AND category_id = $2 AND transaction_date BETWEEN $3 AND $4;
	`
	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, userID, categoryID, start, end).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum expenses of category %s: %w", categoryID, err)
	}
	return total, nil
}
