package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/personal_ledger/internal/apperrors"
	"github.com/SscSPs/personal_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/personal_ledger/internal/core/ports/services"
)

// DefaultTrendMonths is used when a trend is requested without a window.
const DefaultTrendMonths = 6

type statisticsService struct {
	BaseService
	statsRepo portsrepo.StatisticsReader
}

// NewStatisticsService creates the read-only statistics aggregator.
func NewStatisticsService(statsRepo portsrepo.StatisticsReader, options ...ServiceOption) portssvc.StatisticsSvcFacade {
	svc := &statisticsService{statsRepo: statsRepo}
	svc.apply(options)
	return svc
}

var _ portssvc.StatisticsSvcFacade = (*statisticsService)(nil)

// Overview sums income and expenses inside the period window and breaks
// expenses down by root category.
func (s *statisticsService) Overview(ctx context.Context, userID string, period domain.StatsPeriod) (*domain.Overview, error) {
	start, end := domain.PeriodRange(period, s.Now())

	income, err := s.statsRepo.SumByType(ctx, userID, domain.TransactionTypeIncome, start, end)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum income", slog.String("user_id", userID))
		return nil, err
	}
	expense, err := s.statsRepo.SumByType(ctx, userID, domain.TransactionTypeExpense, start, end)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum expenses", slog.String("user_id", userID))
		return nil, err
	}
	categories, err := s.statsRepo.ExpenseTotalsByRootCategory(ctx, userID, start, end)
	if err != nil {
		s.LogError(ctx, err, "Failed to total expenses by category", slog.String("user_id", userID))
		return nil, err
	}
	if categories == nil {
		categories = []domain.CategoryTotal{}
	}

	return &domain.Overview{
		Start:        start,
		End:          end,
		IncomeTotal:  income,
		ExpenseTotal: expense,
		NetSavings:   income.Sub(expense),
		Categories:   categories,
	}, nil
}

// Trend buckets daily totals of txType over the trailing months.
func (s *statisticsService) Trend(ctx context.Context, userID string, txType domain.TransactionType, granularity domain.TrendGranularity, months int) ([]domain.TrendPoint, error) {
	if txType != domain.TransactionTypeIncome && txType != domain.TransactionTypeExpense {
		return nil, fmt.Errorf("%w: trend type must be income or expense", apperrors.ErrValidation)
	}
	if !granularity.IsValid() {
		return nil, fmt.Errorf("%w: unknown granularity %q", apperrors.ErrValidation, granularity)
	}
	if months <= 0 {
		months = DefaultTrendMonths
	}

	now := s.Now()
	days, err := s.statsRepo.DailyTotals(ctx, userID, txType, domain.TrendWindowStart(months, now), now)
	if err != nil {
		s.LogError(ctx, err, "Failed to load daily totals", slog.String("user_id", userID))
		return nil, err
	}
	return domain.BucketTrend(granularity, days), nil
}
