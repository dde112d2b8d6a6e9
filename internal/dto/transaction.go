package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/personal_ledger/internal/apperrors"
	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day format accepted in query strings.
const DateLayout = "2006-01-02"

// CreateTransactionRequest is the input of the posting engine's create path.
// Type and account requirements are checked by the engine, not by binding,
// so that they surface as invalid-transaction errors.
type CreateTransactionRequest struct {
	Type                 domain.TransactionType `json:"type"`
	Amount               decimal.Decimal        `json:"amount"`
	FromAccountID        *string                `json:"fromAccountID"`
	ToAccountID          *string                `json:"toAccountID"`
	CategoryID           *string                `json:"categoryID"`
	TransactionDate      *time.Time             `json:"transactionDate"`
	Notes                string                 `json:"notes"`
	Location             string                 `json:"location" binding:"max=200"`
	Merchant             string                 `json:"merchant" binding:"max=100"`
	ReceiptNumber        string                 `json:"receiptNumber" binding:"max=100"`
	RelatedTransactionID *string                `json:"relatedTransactionID"`
	Tags                 []string               `json:"tags" binding:"omitempty,max=20,dive,max=50"`
}

// UpdateTransactionRequest carries the non-financial fields of a transaction.
// A nil Tags leaves associations alone; an empty list clears them.
// An empty CategoryID clears the category.
type UpdateTransactionRequest struct {
	CategoryID      *string    `json:"categoryID"`
	TransactionDate *time.Time `json:"transactionDate"`
	Notes           *string    `json:"notes"`
	Location        *string    `json:"location" binding:"omitempty,max=200"`
	Merchant        *string    `json:"merchant" binding:"omitempty,max=100"`
	ReceiptNumber   *string    `json:"receiptNumber" binding:"omitempty,max=100"`
	Tags            []string   `json:"tags" binding:"omitempty,max=20,dive,max=50"`
}

// ListTransactionsParams defines query parameters for listing and exporting transactions.
type ListTransactionsParams struct {
	Type       string  `form:"type"`
	CategoryID string  `form:"categoryID"`
	AccountID  string  `form:"accountID"`
	StartDate  string  `form:"startDate"`
	EndDate    string  `form:"endDate"`
	Tag        string  `form:"tag"`
	Limit      int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken  *string `form:"nextToken"`
}

// ToFilter validates the params and converts them into a domain filter.
// EndDate is inclusive, so it is moved to the last instant of that day.
func (p ListTransactionsParams) ToFilter() (domain.TransactionFilter, error) {
	f := domain.TransactionFilter{Limit: p.Limit, NextToken: p.NextToken}
	if p.Type != "" {
		t := domain.TransactionType(p.Type)
		if !t.IsValid() {
			return f, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, p.Type)
		}
		f.Type = &t
	}
	if p.CategoryID != "" {
		f.CategoryID = &p.CategoryID
	}
	if p.AccountID != "" {
		f.AccountID = &p.AccountID
	}
	if p.Tag != "" {
		f.Tag = &p.Tag
	}
	if p.StartDate != "" {
		start, err := time.Parse(DateLayout, p.StartDate)
		if err != nil {
			return f, fmt.Errorf("%w: startDate must be YYYY-MM-DD", apperrors.ErrValidation)
		}
		f.StartDate = &start
	}
	if p.EndDate != "" {
		end, err := time.Parse(DateLayout, p.EndDate)
		if err != nil {
			return f, fmt.Errorf("%w: endDate must be YYYY-MM-DD", apperrors.ErrValidation)
		}
		end = end.AddDate(0, 0, 1).Add(-time.Microsecond)
		f.EndDate = &end
	}
	return f, nil
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID        string                 `json:"transactionID"`
	Type                 domain.TransactionType `json:"type"`
	Amount               decimal.Decimal        `json:"amount"`
	FromAccountID        *string                `json:"fromAccountID,omitempty"`
	ToAccountID          *string                `json:"toAccountID,omitempty"`
	CategoryID           *string                `json:"categoryID,omitempty"`
	TransactionDate      time.Time              `json:"transactionDate"`
	Notes                string                 `json:"notes"`
	Location             string                 `json:"location"`
	Merchant             string                 `json:"merchant"`
	ReceiptNumber        string                 `json:"receiptNumber"`
	RelatedTransactionID *string                `json:"relatedTransactionID,omitempty"`
	Tags                 []string               `json:"tags"`
	CreatedAt            time.Time              `json:"createdAt"`
	UpdatedAt            time.Time              `json:"updatedAt"`
}

// ListTransactionsResponse is one page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	tags := txn.Tags
	if tags == nil {
		tags = []string{}
	}
	return TransactionResponse{
		TransactionID:        txn.TransactionID,
		Type:                 txn.Type,
		Amount:               txn.Amount,
		FromAccountID:        txn.FromAccountID,
		ToAccountID:          txn.ToAccountID,
		CategoryID:           txn.CategoryID,
		TransactionDate:      txn.TransactionDate,
		Notes:                txn.Notes,
		Location:             txn.Location,
		Merchant:             txn.Merchant,
		ReceiptNumber:        txn.ReceiptNumber,
		RelatedTransactionID: txn.RelatedTransactionID,
		Tags:                 tags,
		CreatedAt:            txn.CreatedAt,
		UpdatedAt:            txn.UpdatedAt,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = ToTransactionResponse(&txn)
	}
	return responses
}
