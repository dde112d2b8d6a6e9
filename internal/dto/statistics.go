package dto

import (
	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OverviewParams selects the overview window.
type OverviewParams struct {
	Period string `form:"period,default=month"`
}

// TrendParams selects a trend series.
type TrendParams struct {
	Type        string `form:"type,default=expense" binding:"oneof=income expense"`
	Granularity string `form:"granularity,default=monthly" binding:"oneof=daily weekly monthly"`
	Months      int    `form:"months,default=6" binding:"min=1,max=24"`
}

// TrendResponse is a bucketed series for one transaction type.
type TrendResponse struct {
	Type        domain.TransactionType  `json:"type"`
	Granularity domain.TrendGranularity `json:"granularity"`
	Points      []domain.TrendPoint     `json:"points"`
}

// BudgetUsageResponse is the spending state of one monthly budget.
type BudgetUsageResponse struct {
	BudgetID       string          `json:"budgetID"`
	CategoryID     string          `json:"categoryID"`
	CategoryName   string          `json:"categoryName"`
	Amount         decimal.Decimal `json:"amount"`
	Spent          decimal.Decimal `json:"spent"`
	Remaining      decimal.Decimal `json:"remaining"`
	Percentage     decimal.Decimal `json:"percentage"`
	AlertThreshold decimal.Decimal `json:"alertThreshold"`
	IsOverBudget   bool            `json:"isOverBudget"`
	AlertTriggered bool            `json:"alertTriggered"`
	Period         string          `json:"period"`
}

// ToBudgetUsageResponses converts budget usage rows.
func ToBudgetUsageResponses(usages []domain.BudgetUsage) []BudgetUsageResponse {
	res := make([]BudgetUsageResponse, len(usages))
	for i, u := range usages {
		res[i] = BudgetUsageResponse{
			BudgetID:       u.Budget.BudgetID,
			CategoryID:     u.Budget.CategoryID,
			CategoryName:   u.CategoryName,
			Amount:         u.Budget.Amount,
			Spent:          u.Spent,
			Remaining:      u.Remaining,
			Percentage:     u.Percentage,
			AlertThreshold: u.Budget.AlertThreshold,
			IsOverBudget:   u.IsOverBudget,
			AlertTriggered: u.AlertTriggered,
			Period:         u.Period,
		}
	}
	return res
}
