package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType identifies the kind of money holder an account models.
type AccountType string

const (
	AccountTypeBankCard   AccountType = "bank_card"
	AccountTypeCash       AccountType = "cash"
	AccountTypeAlipay     AccountType = "alipay"
	AccountTypeWechat     AccountType = "wechat"
	AccountTypeCreditCard AccountType = "credit_card"
)

// DefaultCurrency is used when an account is created without one.
const DefaultCurrency = "CNY"

// IsValid reports whether t is one of the known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeBankCard, AccountTypeCash, AccountTypeAlipay, AccountTypeWechat, AccountTypeCreditCard:
		return true
	}
	return false
}

// Account is a named balance holder owned by a single user.
// Balance is only written by the posting engine after creation.
type Account struct {
	AccountID     string          `json:"accountID"`
	UserID        string          `json:"userID"`
	Name          string          `json:"name"`
	AccountType   AccountType     `json:"accountType"`
	AccountNumber string          `json:"accountNumber"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency"`
	Icon          string          `json:"icon"`
	Color         string          `json:"color"`
	Notes         string          `json:"notes"`
	IsDefault     bool            `json:"isDefault"`
	IsActive      bool            `json:"isActive"`
	AuditFields
}
