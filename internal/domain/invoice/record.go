package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is applied when a booking does not name a currency
const DefaultCurrency = "USD"

// DateLayout is the wire format of booking and due dates
const DateLayout = "2006-01-02"

// LineItem is one billable unit on an invoice
type LineItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Amount returns quantity × unit price
func (li LineItem) Amount() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Record is a validated booking invoice ready to be rendered.
// A Record is treated as immutable while a document is being produced.
type Record struct {
	InvoiceNumber   string          `json:"invoice_number"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	CustomerAddress string          `json:"customer_address"`
	BookingDate     time.Time       `json:"booking_date"`
	DueDate         time.Time       `json:"due_date"`
	GuideName       string          `json:"guide_name"`
	Items           []LineItem      `json:"items"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	Discount        decimal.Decimal `json:"discount"`
	Notes           *string         `json:"notes,omitempty"`
	Currency        string          `json:"currency"`
}

// HasNotes reports whether the notes region should be emitted. Empty notes
// count as absent.
func (r *Record) HasNotes() bool {
	return r.Notes != nil && *r.Notes != ""
}

// Filename returns the suggested attachment name for the rendered document
func (r *Record) Filename() string {
	return r.InvoiceNumber + ".pdf"
}

// Totals computes the derived amounts for this record
func (r *Record) Totals() Totals {
	return ComputeTotals(r.Items, r.TaxRate, r.Discount)
}

// CurrencyPrefix returns the prefix placed in front of every amount
func (r *Record) CurrencyPrefix() string {
	return CurrencyPrefix(r.Currency)
}

// FormatDate renders a calendar date in the long form used on invoices,
// e.g. "February 17, 2026".
func FormatDate(t time.Time) string {
	return t.Format("January 02, 2006")
}

// ParseDate parses a date in DateLayout as midnight UTC
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
