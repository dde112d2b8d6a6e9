package services

import (
	"context"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
)

// StatisticsSvcFacade exposes read-only aggregates over transactions.
type StatisticsSvcFacade interface {
	// Overview sums income and expenses over a calendar-aligned window.
	Overview(ctx context.Context, userID string, period domain.StatsPeriod) (*domain.Overview, error)

	// Trend buckets totals of txType over the trailing months.
	Trend(ctx context.Context, userID string, txType domain.TransactionType, granularity domain.TrendGranularity, months int) ([]domain.TrendPoint, error)
}
