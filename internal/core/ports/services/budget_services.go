package services

import (
	"context"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/SscSPs/personal_ledger/internal/dto"
)

// BudgetSvcFacade manages budgets and reports their usage.
type BudgetSvcFacade interface {
	// CreateBudget persists a budget; a second active budget for the same category and period is a duplicate.
	CreateBudget(ctx context.Context, userID string, req dto.CreateBudgetRequest) (*domain.Budget, error)

	// GetBudgetByID returns a budget owned by userID.
	GetBudgetByID(ctx context.Context, userID string, budgetID string) (*domain.Budget, error)

	// ListBudgets returns the user's active budgets, optionally for one period.
	ListBudgets(ctx context.Context, userID string, period *domain.BudgetPeriod) ([]domain.Budget, error)

	// UpdateBudget changes amount, alert threshold or active flag.
	UpdateBudget(ctx context.Context, userID string, budgetID string, req dto.UpdateBudgetRequest) (*domain.Budget, error)

	// DeleteBudget soft deletes a budget.
	DeleteBudget(ctx context.Context, userID string, budgetID string) error

	// BudgetUsage reports current-month spending for every active monthly budget.
	BudgetUsage(ctx context.Context, userID string) ([]domain.BudgetUsage, error)
}
