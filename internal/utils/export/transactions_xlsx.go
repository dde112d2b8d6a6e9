package export

import (
	"fmt"
	"strings"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/xuri/excelize/v2"
)

// TransactionsSheet is the name of the worksheet holding exported transactions.
const TransactionsSheet = "Transactions"

// ContentType is the MIME type of an XLSX workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var transactionHeaders = []string{"Type", "Date", "Amount", "Category", "From", "To", "Merchant", "Notes", "Tags"}

var columnWidths = map[string]float64{
	"A": 12, "B": 12, "C": 14, "D": 16, "E": 16, "F": 16, "G": 20, "H": 30, "I": 20,
}

// Names resolves ids to display names. Unknown ids are written as-is.
type Names struct {
	Accounts   map[string]string
	Categories map[string]string
}

func (n Names) lookup(m map[string]string, id *string) string {
	v := domain.StringValue(id)
	if v == "" {
		return ""
	}
	if name, ok := m[v]; ok {
		return name
	}
	return v
}

// TransactionsWorkbook renders txns, one row each below a header row.
func TransactionsWorkbook(txns []domain.Transaction, names Names) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(TransactionsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	// NewFile starts with "Sheet1"; drop it so the export has a single sheet.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	for i, h := range transactionHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(TransactionsSheet, cell, h); err != nil {
			return nil, err
		}
	}

	for idx, t := range txns {
		row := idx + 2
		values := []interface{}{
			string(t.Type),
			t.TransactionDate.Format("2006-01-02"),
			t.Amount.StringFixed(2),
			names.lookup(names.Categories, t.CategoryID),
			names.lookup(names.Accounts, t.FromAccountID),
			names.lookup(names.Accounts, t.ToAccountID),
			t.Merchant,
			t.Notes,
			strings.Join(t.Tags, ", "),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(TransactionsSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	for col, width := range columnWidths {
		if err := f.SetColWidth(TransactionsSheet, col, col, width); err != nil {
			return nil, err
		}
	}
	return f, nil
}
