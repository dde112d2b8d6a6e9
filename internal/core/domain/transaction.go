package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/personal_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// TransactionType is the business kind of a transaction and decides its balance effect.
type TransactionType string

const (
	TransactionTypeIncome    TransactionType = "income"
	TransactionTypeExpense   TransactionType = "expense"
	TransactionTypeTransfer  TransactionType = "transfer"
	TransactionTypeLoanIn    TransactionType = "loan_in"
	TransactionTypeLoanOut   TransactionType = "loan_out"
	TransactionTypeRepayment TransactionType = "repayment"
)

// IsValid reports whether t is one of the six known transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer,
		TransactionTypeLoanIn, TransactionTypeLoanOut, TransactionTypeRepayment:
		return true
	}
	return false
}

// Transaction is a single posted money movement.
type Transaction struct {
	TransactionID        string          `json:"transactionID"`
	UserID               string          `json:"userID"`
	Type                 TransactionType `json:"type"`
	Amount               decimal.Decimal `json:"amount"`
	FromAccountID        *string         `json:"fromAccountID,omitempty"`
	ToAccountID          *string         `json:"toAccountID,omitempty"`
	CategoryID           *string         `json:"categoryID,omitempty"`
	TransactionDate      time.Time       `json:"transactionDate"`
	Notes                string          `json:"notes"`
	Location             string          `json:"location"`
	Merchant             string          `json:"merchant"`
	ReceiptNumber        string          `json:"receiptNumber"`
	RelatedTransactionID *string         `json:"relatedTransactionID,omitempty"`
	Tags                 []string        `json:"tags"`
	AuditFields
}

// PostingLegs names the account decreased (debit) and increased (credit) by a
// transaction of type t. An empty string means that side is untouched.
//
// Repayment has no fixed shape: it debits "from" and credits "to" for whichever
// of the two is present, behaving like an expense, an income or a transfer.
func PostingLegs(t TransactionType, fromAccountID, toAccountID *string) (debitID, creditID string) {
	from, to := StringValue(fromAccountID), StringValue(toAccountID)
	switch t {
	case TransactionTypeExpense, TransactionTypeLoanOut:
		return from, ""
	case TransactionTypeIncome, TransactionTypeLoanIn:
		return "", to
	case TransactionTypeTransfer, TransactionTypeRepayment:
		return from, to
	}
	return "", ""
}

// ValidatePosting checks the type and the required accounts for that type.
// It runs before any store access so a rejected request never writes.
func ValidatePosting(t TransactionType, amount decimal.Decimal, fromAccountID, toAccountID *string) error {
	if !t.IsValid() {
		return fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrInvalidTransaction, t)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrInvalidTransaction)
	}
	if !HasWholeCents(amount) {
		return fmt.Errorf("%w: amount %s has more than %d decimal places", apperrors.ErrInvalidTransaction, amount, MoneyPlaces)
	}

	from, to := StringValue(fromAccountID), StringValue(toAccountID)
	switch t {
	case TransactionTypeExpense, TransactionTypeLoanOut:
		if from == "" {
			return fmt.Errorf("%w: %s requires a source account", apperrors.ErrInvalidTransaction, t)
		}
	case TransactionTypeIncome, TransactionTypeLoanIn:
		if to == "" {
			return fmt.Errorf("%w: %s requires a destination account", apperrors.ErrInvalidTransaction, t)
		}
	case TransactionTypeTransfer:
		if from == "" || to == "" {
			return fmt.Errorf("%w: transfer requires both source and destination accounts", apperrors.ErrInvalidTransaction)
		}
	case TransactionTypeRepayment:
		if from == "" && to == "" {
			return fmt.Errorf("%w: repayment requires a source or destination account", apperrors.ErrInvalidTransaction)
		}
	}
	if from != "" && from == to && (t == TransactionTypeTransfer || t == TransactionTypeRepayment) {
		return fmt.Errorf("%w: source and destination accounts must differ", apperrors.ErrInvalidTransaction)
	}
	return nil
}

// BalanceEffect maps account IDs to the signed delta a posting applies.
type BalanceEffect map[string]decimal.Decimal

// Effect returns the balance deltas of posting t.
func (t Transaction) Effect() BalanceEffect {
	effect := BalanceEffect{}
	debitID, creditID := PostingLegs(t.Type, t.FromAccountID, t.ToAccountID)
	if debitID != "" {
		effect[debitID] = effect[debitID].Sub(t.Amount)
	}
	if creditID != "" {
		effect[creditID] = effect[creditID].Add(t.Amount)
	}
	return effect
}

// Inverse negates every delta. Applying e and then e.Inverse() is a no-op.
func (e BalanceEffect) Inverse() BalanceEffect {
	inv := make(BalanceEffect, len(e))
	for id, delta := range e {
		inv[id] = delta.Neg()
	}
	return inv
}

// AccountIDs lists the accounts touched by the effect.
func (e BalanceEffect) AccountIDs() []string {
	ids := make([]string, 0, len(e))
	for id := range e {
		ids = append(ids, id)
	}
	return ids
}

// TransactionFilter narrows transaction listings and exports.
type TransactionFilter struct {
	Type       *TransactionType
	CategoryID *string
	AccountID  *string
	StartDate  *time.Time
	EndDate    *time.Time
	Tag        *string
	Limit      int
	NextToken  *string
}

// StringValue dereferences p, treating nil as "".
func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
