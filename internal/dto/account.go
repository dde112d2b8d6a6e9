package dto

import (
	"time"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name           string             `json:"name" binding:"required,max=100"`
	AccountType    domain.AccountType `json:"accountType" binding:"required,oneof=bank_card cash alipay wechat credit_card"`
	AccountNumber  string             `json:"accountNumber" binding:"max=50"`
	InitialBalance *decimal.Decimal   `json:"initialBalance"`
	Currency       string             `json:"currency" binding:"omitempty,len=3"`
	Icon           string             `json:"icon" binding:"max=50"`
	Color          string             `json:"color" binding:"max=20"`
	Notes          string             `json:"notes"`
	IsDefault      bool               `json:"isDefault"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Pointers distinguish "not provided" from zero values. Balance is not editable.
type UpdateAccountRequest struct {
	Name          *string             `json:"name" binding:"omitempty,max=100"`
	AccountType   *domain.AccountType `json:"accountType" binding:"omitempty,oneof=bank_card cash alipay wechat credit_card"`
	AccountNumber *string             `json:"accountNumber" binding:"omitempty,max=50"`
	Icon          *string             `json:"icon" binding:"omitempty,max=50"`
	Color         *string             `json:"color" binding:"omitempty,max=20"`
	Notes         *string             `json:"notes"`
	IsDefault     *bool               `json:"isDefault"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string             `json:"accountID"`
	Name          string             `json:"name"`
	AccountType   domain.AccountType `json:"accountType"`
	AccountNumber string             `json:"accountNumber"`
	Balance       decimal.Decimal    `json:"balance"`
	Currency      string             `json:"currency"`
	Icon          string             `json:"icon"`
	Color         string             `json:"color"`
	Notes         string             `json:"notes"`
	IsDefault     bool               `json:"isDefault"`
	IsActive      bool               `json:"isActive"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// ListAccountsResponse wraps the active accounts and their combined balance.
type ListAccountsResponse struct {
	Accounts     []AccountResponse `json:"accounts"`
	TotalBalance decimal.Decimal   `json:"totalBalance"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Name:          acc.Name,
		AccountType:   acc.AccountType,
		AccountNumber: acc.AccountNumber,
		Balance:       acc.Balance,
		Currency:      acc.Currency,
		Icon:          acc.Icon,
		Color:         acc.Color,
		Notes:         acc.Notes,
		IsDefault:     acc.IsDefault,
		IsActive:      acc.IsActive,
		CreatedAt:     acc.CreatedAt,
		UpdatedAt:     acc.UpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}
