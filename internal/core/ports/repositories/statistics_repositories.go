package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StatisticsReader provides read-only sums over transactions. Every window is inclusive.
type StatisticsReader interface {
	// SumByType totals transactions of txType dated within [start, end].
	SumByType(ctx context.Context, userID string, txType domain.TransactionType, start, end time.Time) (decimal.Decimal, error)

	// ExpenseTotalsByRootCategory sums expenses per root expense category, children rolled up.
	// Categories with a zero total are omitted.
	ExpenseTotalsByRootCategory(ctx context.Context, userID string, start, end time.Time) ([]domain.CategoryTotal, error)

	// DailyTotals sums transactions of txType per calendar day.
	DailyTotals(ctx context.Context, userID string, txType domain.TransactionType, start, end time.Time) ([]domain.DailyTotal, error)

	// SumCategoryExpenses totals expenses booked directly on categoryID.
	SumCategoryExpenses(ctx context.Context, userID string, categoryID string, start, end time.Time) (decimal.Decimal, error)
}
