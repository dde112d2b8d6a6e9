package domain_test

import (
	"testing"

	"github.com/SscSPs/personal_ledger/internal/apperrors"
	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringPtr(s string) *string {
	return &s
}

func TestValidatePosting(t *testing.T) {
	amount := decimal.NewFromInt(100)
	tests := []struct {
		name    string
		txType  domain.TransactionType
		amount  decimal.Decimal
		from    *string
		to      *string
		wantErr bool
	}{
		{name: "expense with source", txType: domain.TransactionTypeExpense, amount: amount, from: stringPtr("a")},
		{name: "expense without source", txType: domain.TransactionTypeExpense, amount: amount, to: stringPtr("a"), wantErr: true},
		{name: "loan out without source", txType: domain.TransactionTypeLoanOut, amount: amount, wantErr: true},
		{name: "income with destination", txType: domain.TransactionTypeIncome, amount: amount, to: stringPtr("a")},
		{name: "loan in without destination", txType: domain.TransactionTypeLoanIn, amount: amount, from: stringPtr("a"), wantErr: true},
		{name: "transfer with both", txType: domain.TransactionTypeTransfer, amount: amount, from: stringPtr("a"), to: stringPtr("b")},
		{name: "transfer missing destination", txType: domain.TransactionTypeTransfer, amount: amount, from: stringPtr("a"), wantErr: true},
		{name: "transfer to itself", txType: domain.TransactionTypeTransfer, amount: amount, from: stringPtr("a"), to: stringPtr("a"), wantErr: true},
		{name: "repayment source only", txType: domain.TransactionTypeRepayment, amount: amount, from: stringPtr("a")},
		{name: "repayment destination only", txType: domain.TransactionTypeRepayment, amount: amount, to: stringPtr("a")},
		{name: "repayment with no accounts", txType: domain.TransactionTypeRepayment, amount: amount, wantErr: true},
		{name: "repayment to itself", txType: domain.TransactionTypeRepayment, amount: amount, from: stringPtr("a"), to: stringPtr("a"), wantErr: true},
		{name: "unknown type", txType: "gift", amount: amount, from: stringPtr("a"), wantErr: true},
		{name: "zero amount", txType: domain.TransactionTypeExpense, amount: decimal.Zero, from: stringPtr("a"), wantErr: true},
		{name: "whole cents", txType: domain.TransactionTypeExpense, amount: decimal.RequireFromString("100.01"), from: stringPtr("a")},
		{name: "sub-cent amount", txType: domain.TransactionTypeExpense, amount: decimal.RequireFromString("100.005"), from: stringPtr("a"), wantErr: true},
		{name: "amount that rounds to zero", txType: domain.TransactionTypeIncome, amount: decimal.RequireFromString("0.001"), to: stringPtr("a"), wantErr: true},
		{name: "empty string account counts as missing", txType: domain.TransactionTypeIncome, amount: amount, to: stringPtr(""), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidatePosting(tt.txType, tt.amount, tt.from, tt.to)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrInvalidTransaction)
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTransaction_Effect(t *testing.T) {
	amount := decimal.RequireFromString("100.00")
	tests := []struct {
		name string
		txn  domain.Transaction
		want map[string]string
	}{
		{
			name: "expense debits source",
			txn:  domain.Transaction{Type: domain.TransactionTypeExpense, Amount: amount, FromAccountID: stringPtr("a"), ToAccountID: stringPtr("b")},
			want: map[string]string{"a": "-100"},
		},
		{
			name: "loan out debits source",
			txn:  domain.Transaction{Type: domain.TransactionTypeLoanOut, Amount: amount, FromAccountID: stringPtr("a")},
			want: map[string]string{"a": "-100"},
		},
		{
			name: "income credits destination",
			txn:  domain.Transaction{Type: domain.TransactionTypeIncome, Amount: amount, ToAccountID: stringPtr("b")},
			want: map[string]string{"b": "100"},
		},
		{
			name: "loan in credits destination",
			txn:  domain.Transaction{Type: domain.TransactionTypeLoanIn, Amount: amount, ToAccountID: stringPtr("b")},
			want: map[string]string{"b": "100"},
		},
		{
			name: "transfer moves between accounts",
			txn:  domain.Transaction{Type: domain.TransactionTypeTransfer, Amount: amount, FromAccountID: stringPtr("a"), ToAccountID: stringPtr("b")},
			want: map[string]string{"a": "-100", "b": "100"},
		},
		{
			name: "repayment with source only acts like expense",
			txn:  domain.Transaction{Type: domain.TransactionTypeRepayment, Amount: amount, FromAccountID: stringPtr("a")},
			want: map[string]string{"a": "-100"},
		},
		{
			name: "repayment with destination only acts like income",
			txn:  domain.Transaction{Type: domain.TransactionTypeRepayment, Amount: amount, ToAccountID: stringPtr("b")},
			want: map[string]string{"b": "100"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			effect := tt.txn.Effect()
			require.Len(t, effect, len(tt.want))
			for id, want := range tt.want {
				assert.True(t, decimal.RequireFromString(want).Equal(effect[id]), "account %s: got %s want %s", id, effect[id], want)
			}
		})
	}
}

func TestBalanceEffect_InverseCancelsOut(t *testing.T) {
	txn := domain.Transaction{
		Type:          domain.TransactionTypeTransfer,
		Amount:        decimal.RequireFromString("42.17"),
		FromAccountID: stringPtr("a"),
		ToAccountID:   stringPtr("b"),
	}
	effect := txn.Effect()
	inverse := effect.Inverse()

	for id, delta := range effect {
		assert.True(t, delta.Add(inverse[id]).IsZero(), "account %s does not cancel out", id)
	}
	assert.ElementsMatch(t, []string{"a", "b"}, inverse.AccountIDs())
}

func TestNormalizeTagNames(t *testing.T) {
	got := domain.NormalizeTagNames([]string{" travel", "food", "", "travel", "  "})
	assert.Equal(t, []string{"food", "travel"}, got)
}
