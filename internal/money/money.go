package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Parse parses a Brazilian-formatted amount string into a decimal.
// Format examples: "1.234,56", "400", "1200,00". Plain "1234.56" also works.
func Parse(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "R$")
	clean = strings.TrimSpace(clean)

	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	return decimal.NewFromString(clean)
}

// Coerce parses like Parse but degrades to zero on malformed input.
// Sheet cells and request fields are not validated upstream, so storage and
// handlers coerce rather than fail.
func Coerce(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		return decimal.Zero
	}

	return d
}

// Format renders a decimal the way the sheet stores it: two decimal places,
// comma as the decimal separator.
func Format(d decimal.Decimal) string {
	return strings.ReplaceAll(d.StringFixed(2), ".", ",")
}
