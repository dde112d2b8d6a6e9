package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetPeriod is the window a budget ceiling applies to.
type BudgetPeriod string

const (
	BudgetPeriodDaily   BudgetPeriod = "daily"
	BudgetPeriodWeekly  BudgetPeriod = "weekly"
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// DefaultAlertThreshold is the percentage used when none is supplied.
var DefaultAlertThreshold = decimal.NewFromInt(80)

// IsValid reports whether p is a known period.
func (p BudgetPeriod) IsValid() bool {
	switch p {
	case BudgetPeriodDaily, BudgetPeriodWeekly, BudgetPeriodMonthly, BudgetPeriodYearly:
		return true
	}
	return false
}

// Budget is a spending ceiling for one category over a period.
type Budget struct {
	BudgetID       string          `json:"budgetID"`
	UserID         string          `json:"userID"`
	CategoryID     string          `json:"categoryID"`
	Amount         decimal.Decimal `json:"amount"`
	Period         BudgetPeriod    `json:"period"`
	StartDate      time.Time       `json:"startDate"`
	AlertThreshold decimal.Decimal `json:"alertThreshold"`
	IsActive       bool            `json:"isActive"`
	AuditFields
}

// BudgetStartDate anchors a new budget: the first of the month for monthly,
// January 1st for yearly, and now for everything else.
func BudgetStartDate(period BudgetPeriod, now time.Time) time.Time {
	switch period {
	case BudgetPeriodMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case BudgetPeriodYearly:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	}
	return now
}

// BudgetUsage is the derived spending state of a budget.
type BudgetUsage struct {
	Budget         Budget          `json:"budget"`
	CategoryName   string          `json:"categoryName"`
	Spent          decimal.Decimal `json:"spent"`
	Remaining      decimal.Decimal `json:"remaining"`
	Percentage     decimal.Decimal `json:"percentage"`
	IsOverBudget   bool            `json:"isOverBudget"`
	AlertTriggered bool            `json:"alertTriggered"`
	Period         string          `json:"period"`
}

var hundred = decimal.NewFromInt(100)

// NewBudgetUsage computes usage of b given the amount spent in its window.
// A non-positive ceiling yields a percentage of zero.
func NewBudgetUsage(b Budget, categoryName string, spent decimal.Decimal, period string) BudgetUsage {
	percentage := decimal.Zero
	if b.Amount.IsPositive() {
		percentage = spent.Div(b.Amount).Mul(hundred).Round(2)
	}
	remaining := b.Amount.Sub(spent)
	return BudgetUsage{
		Budget:         b,
		CategoryName:   categoryName,
		Spent:          spent,
		Remaining:      remaining,
		Percentage:     percentage,
		IsOverBudget:   remaining.IsNegative(),
		AlertTriggered: percentage.GreaterThanOrEqual(b.AlertThreshold),
		Period:         period,
	}
}
