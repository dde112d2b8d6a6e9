package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
)

// BudgetReader defines read operations for budget data
type BudgetReader interface {
	// FindBudgetForUser returns the budget or apperrors.ErrNotFound.
	FindBudgetForUser(ctx context.Context, userID string, budgetID string) (*domain.Budget, error)

	// ListBudgets returns budgets ordered by creation time. A nil period returns all periods.
	ListBudgets(ctx context.Context, userID string, period *domain.BudgetPeriod, activeOnly bool) ([]domain.Budget, error)

	// ActiveBudgetExists reports whether an active budget already covers (category, period).
	ActiveBudgetExists(ctx context.Context, userID string, categoryID string, period domain.BudgetPeriod) (bool, error)
}

// BudgetWriter defines write operations for budget data
type BudgetWriter interface {
	// SaveBudget persists a new budget.
	SaveBudget(ctx context.Context, budget domain.Budget) error

	// UpdateBudget updates amount, threshold and active flag.
	UpdateBudget(ctx context.Context, budget domain.Budget) error

	// DeactivateBudget soft deletes a budget.
	DeactivateBudget(ctx context.Context, userID string, budgetID string, now time.Time) error
}

// BudgetRepositoryFacade combines all budget-related repository interfaces
type BudgetRepositoryFacade interface {
	BudgetReader
	BudgetWriter
}
