package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimal parses a decimal string from the wire. Monetary fields are
// transmitted as strings; anything unparsable (empty, garbage, whitespace)
// is treated as zero rather than an error.
func ParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatDecimal renders a decimal back into its wire representation.
func FormatDecimal(d decimal.Decimal) string {
	return d.String()
}
