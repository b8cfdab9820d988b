package invoice

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyPrefix returns "$" for USD and "<code> " for any other code
func CurrencyPrefix(currency string) string {
	if currency == "USD" {
		return "$"
	}
	return currency + " "
}

// FormatMoney formats a value with the given prefix, thousands separators and
// exactly two decimal places.
// Example: (1234.5, "$") -> "$1,234.50", (-3, "THB ") -> "THB -3.00"
func FormatMoney(value decimal.Decimal, prefix string) string {
	sign := ""
	value = value.Round(2)
	if value.IsNegative() {
		sign = "-"
		value = value.Abs()
	}
	return prefix + sign + groupThousands(value.StringFixed(2))
}

// groupThousands inserts commas into the integer part of a fixed-point string
func groupThousands(fixed string) string {
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteRune(',')
		}
		b.WriteRune(c)
	}
	if fracPart != "" {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}
