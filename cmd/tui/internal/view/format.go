package view

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jataidesja-hub/gerenciamento/internal/money"
)

// FormatAmount renders a monetary value with the Brazilian comma separator.
func FormatAmount(v decimal.Decimal) string {
	return "R$ " + money.Format(v)
}

// FormatDate formats a date as dd/mm/yyyy, the convention of the original
// control spreadsheet. Zero times render empty.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format("02/01/2006")
}
