package invoice

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Totals holds the amounts derived from the line items of a record
type Totals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Discount  decimal.Decimal
	Total     decimal.Decimal
}

// ComputeTotals derives subtotal, tax and grand total.
//
//	subtotal = Σ quantity × unit price
//	tax      = subtotal × taxRate / 100
//	total    = subtotal + tax − discount
//
// The total is not clamped and may be negative when the discount exceeds
// the taxed subtotal.
func ComputeTotals(items []LineItem, taxRate, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Amount())
	}
	tax := subtotal.Mul(taxRate).Div(hundred)

	return Totals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Discount:  discount,
		Total:     subtotal.Add(tax).Sub(discount),
	}
}

// FormatTaxRate renders a percentage the way it is shown in the totals
// label: always at least one fractional digit, e.g. 7 -> "7.0", 7.25 -> "7.25".
func FormatTaxRate(rate decimal.Decimal) string {
	s := rate.String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
