package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/personal_ledger/internal/apperrors"
	"github.com/SscSPs/personal_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/personal_ledger/internal/core/ports/services"
	"github.com/SscSPs/personal_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type budgetService struct {
	BaseService
	budgetRepo   portsrepo.BudgetRepositoryFacade
	categoryRepo portsrepo.CategoryReader
	statsRepo    portsrepo.StatisticsReader
}

// NewBudgetService creates a new budget service.
func NewBudgetService(
	budgetRepo portsrepo.BudgetRepositoryFacade,
	categoryRepo portsrepo.CategoryReader,
	statsRepo portsrepo.StatisticsReader,
	options ...ServiceOption,
) portssvc.BudgetSvcFacade {
	svc := &budgetService{budgetRepo: budgetRepo, categoryRepo: categoryRepo, statsRepo: statsRepo}
	svc.apply(options)
	return svc
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

func (s *budgetService) CreateBudget(ctx context.Context, userID string, req dto.CreateBudgetRequest) (*domain.Budget, error) {
	if err := validateBudgetAmount(req.Amount); err != nil {
		return nil, err
	}
	period := req.Period
	if period == "" {
		period = domain.BudgetPeriodMonthly
	}
	if !period.IsValid() {
		return nil, fmt.Errorf("%w: unknown budget period %q", apperrors.ErrValidation, period)
	}
	threshold := domain.DefaultAlertThreshold
	if req.AlertThreshold != nil {
		threshold = *req.AlertThreshold
	}
	if err := validateThreshold(threshold); err != nil {
		return nil, err
	}

	if _, err := s.categoryRepo.FindCategoryForUser(ctx, userID, req.CategoryID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: category %s does not exist", apperrors.ErrValidation, req.CategoryID)
		}
		return nil, err
	}
	if err := s.ensureUnique(ctx, userID, req.CategoryID, period); err != nil {
		return nil, err
	}

	now := s.Now()
	budget := domain.Budget{
		BudgetID:       uuid.NewString(),
		UserID:         userID,
		CategoryID:     req.CategoryID,
		Amount:         req.Amount,
		Period:         period,
		StartDate:      domain.BudgetStartDate(period, now),
		AlertThreshold: threshold,
		IsActive:       true,
		AuditFields:    domain.AuditFields{CreatedAt: now, UpdatedAt: now},
	}
	if err := s.budgetRepo.SaveBudget(ctx, budget); err != nil {
		s.LogError(ctx, err, "Failed to save budget", slog.String("budget_id", budget.BudgetID))
		return nil, err
	}

	s.LogInfo(ctx, "Budget created", slog.String("budget_id", budget.BudgetID), slog.String("period", string(period)))
	return &budget, nil
}

func (s *budgetService) GetBudgetByID(ctx context.Context, userID string, budgetID string) (*domain.Budget, error) {
	budget, err := s.budgetRepo.FindBudgetForUser(ctx, userID, budgetID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find budget", slog.String("budget_id", budgetID))
		}
		return nil, err
	}
	return budget, nil
}

func (s *budgetService) ListBudgets(ctx context.Context, userID string, period *domain.BudgetPeriod) ([]domain.Budget, error) {
	if period != nil && !period.IsValid() {
		return nil, fmt.Errorf("%w: unknown budget period %q", apperrors.ErrValidation, *period)
	}
	budgets, err := s.budgetRepo.ListBudgets(ctx, userID, period, true)
	if err != nil {
		s.LogError(ctx, err, "Failed to list budgets", slog.String("user_id", userID))
		return nil, err
	}
	if budgets == nil {
		return []domain.Budget{}, nil
	}
	return budgets, nil
}

func (s *budgetService) UpdateBudget(ctx context.Context, userID string, budgetID string, req dto.UpdateBudgetRequest) (*domain.Budget, error) {
	budget, err := s.GetBudgetByID(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}

	if req.Amount != nil {
		if err := validateBudgetAmount(*req.Amount); err != nil {
			return nil, err
		}
		budget.Amount = *req.Amount
	}
	if req.AlertThreshold != nil {
		if err := validateThreshold(*req.AlertThreshold); err != nil {
			return nil, err
		}
		budget.AlertThreshold = *req.AlertThreshold
	}
	if req.IsActive != nil {
		if *req.IsActive && !budget.IsActive {
			if err := s.ensureUnique(ctx, userID, budget.CategoryID, budget.Period); err != nil {
				return nil, err
			}
		}
		budget.IsActive = *req.IsActive
	}
	budget.UpdatedAt = s.Now()

	if err := s.budgetRepo.UpdateBudget(ctx, *budget); err != nil {
		s.LogError(ctx, err, "Failed to update budget", slog.String("budget_id", budgetID))
		return nil, err
	}
	return budget, nil
}

func (s *budgetService) DeleteBudget(ctx context.Context, userID string, budgetID string) error {
	if err := s.budgetRepo.DeactivateBudget(ctx, userID, budgetID, s.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to deactivate budget", slog.String("budget_id", budgetID))
		}
		return err
	}
	s.LogInfo(ctx, "Budget deactivated", slog.String("budget_id", budgetID))
	return nil
}

// BudgetUsage reports spending in the current calendar month for every active
// monthly budget. Only expenses booked directly on the budget's category count.
func (s *budgetService) BudgetUsage(ctx context.Context, userID string) ([]domain.BudgetUsage, error) {
	period := domain.BudgetPeriodMonthly
	budgets, err := s.budgetRepo.ListBudgets(ctx, userID, &period, true)
	if err != nil {
		s.LogError(ctx, err, "Failed to list budgets for usage", slog.String("user_id", userID))
		return nil, err
	}

	now := s.Now()
	start, end := domain.PeriodRange(domain.StatsPeriodMonth, now)
	label := start.Format("2006-01")

	usages := make([]domain.BudgetUsage, 0, len(budgets))
	for _, b := range budgets {
		spent, err := s.statsRepo.SumCategoryExpenses(ctx, userID, b.CategoryID, start, end)
		if err != nil {
			s.LogError(ctx, err, "Failed to sum category expenses", slog.String("budget_id", b.BudgetID))
			return nil, err
		}

		name := ""
		category, err := s.categoryRepo.FindCategoryForUser(ctx, userID, b.CategoryID)
		switch {
		case err == nil:
			name = category.Name
		case !errors.Is(err, apperrors.ErrNotFound):
			return nil, err
		}

		usages = append(usages, domain.NewBudgetUsage(b, name, spent, label))
	}
	return usages, nil
}

func (s *budgetService) ensureUnique(ctx context.Context, userID, categoryID string, period domain.BudgetPeriod) error {
	exists, err := s.budgetRepo.ActiveBudgetExists(ctx, userID, categoryID, period)
	if err != nil {
		s.LogError(ctx, err, "Failed to check existing budgets", slog.String("category_id", categoryID))
		return err
	}
	if exists {
		return fmt.Errorf("%w: an active %s budget already exists for this category", apperrors.ErrDuplicate, period)
	}
	return nil
}

var maxThreshold = decimal.NewFromInt(100)

func validateBudgetAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: budget amount must be greater than zero", apperrors.ErrValidation)
	}
	if !domain.HasWholeCents(amount) {
		return fmt.Errorf("%w: budget amount has more than %d decimal places", apperrors.ErrValidation, domain.MoneyPlaces)
	}
	return nil
}

func validateThreshold(threshold decimal.Decimal) error {
	if threshold.IsNegative() || threshold.GreaterThan(maxThreshold) {
		return fmt.Errorf("%w: alert threshold must be between 0 and 100", apperrors.ErrValidation)
	}
	if !domain.HasWholeCents(threshold) {
		return fmt.Errorf("%w: alert threshold has more than %d decimal places", apperrors.ErrValidation, domain.MoneyPlaces)
	}
	return nil
}
