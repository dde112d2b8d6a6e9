package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of fraction digits stored for amounts and balances.
const MoneyPlaces = 2

// HasWholeCents reports whether d is stored without rounding.
func HasWholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyPlaces))
}

// AuditFields holds standard timestamps for domain entities.
type AuditFields struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
