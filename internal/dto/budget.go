package dto

import (
	"time"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBudgetRequest defines the data needed to create a budget.
type CreateBudgetRequest struct {
	CategoryID     string              `json:"categoryID" binding:"required"`
	Amount         decimal.Decimal     `json:"amount" binding:"decimal_gt0"`
	Period         domain.BudgetPeriod `json:"period" binding:"omitempty,oneof=daily weekly monthly yearly"`
	AlertThreshold *decimal.Decimal    `json:"alertThreshold"`
}

// UpdateBudgetRequest defines the editable fields of a budget.
type UpdateBudgetRequest struct {
	Amount         *decimal.Decimal `json:"amount" binding:"omitempty,decimal_gt0"`
	AlertThreshold *decimal.Decimal `json:"alertThreshold"`
	IsActive       *bool            `json:"isActive"`
}

// ListBudgetsParams filters budgets by period.
type ListBudgetsParams struct {
	Period string `form:"period" binding:"omitempty,oneof=daily weekly monthly yearly"`
}

// BudgetResponse defines the data returned for a budget.
type BudgetResponse struct {
	BudgetID       string              `json:"budgetID"`
	CategoryID     string              `json:"categoryID"`
	Amount         decimal.Decimal     `json:"amount"`
	Period         domain.BudgetPeriod `json:"period"`
	StartDate      time.Time           `json:"startDate"`
	AlertThreshold decimal.Decimal     `json:"alertThreshold"`
	IsActive       bool                `json:"isActive"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// ToBudgetResponse converts a domain.Budget to BudgetResponse DTO
func ToBudgetResponse(b *domain.Budget) BudgetResponse {
	return BudgetResponse{
		BudgetID:       b.BudgetID,
		CategoryID:     b.CategoryID,
		Amount:         b.Amount,
		Period:         b.Period,
		StartDate:      b.StartDate,
		AlertThreshold: b.AlertThreshold,
		IsActive:       b.IsActive,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

// ToBudgetResponses converts a slice of budgets.
func ToBudgetResponses(budgets []domain.Budget) []BudgetResponse {
	res := make([]BudgetResponse, len(budgets))
	for i, b := range budgets {
		res[i] = ToBudgetResponse(&b)
	}
	return res
}
