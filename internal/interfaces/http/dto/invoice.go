package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/guidebooker/invoice-service/internal/domain/invoice"
	"github.com/shopspring/decimal"
)

// CreateInvoiceItem is one line item of a CreateInvoiceRequest
type CreateInvoiceItem struct {
	Description *string  `json:"description" binding:"required"`
	Quantity    *int     `json:"quantity" binding:"required,gte=1"`
	UnitPrice   *float64 `json:"unit_price" binding:"required,gte=0"`
}

// CreateInvoiceRequest is the JSON body of POST /invoices.
// Pointer fields separate "absent" from zero values: absent required
// fields are rejected while empty strings are accepted verbatim.
type CreateInvoiceRequest struct {
	InvoiceNumber   *string             `json:"invoice_number" binding:"required"`
	CustomerName    *string             `json:"customer_name" binding:"required"`
	CustomerEmail   *string             `json:"customer_email" binding:"required"`
	CustomerAddress *string             `json:"customer_address" binding:"required"`
	BookingDate     *string             `json:"booking_date" binding:"required,datetime=2006-01-02"`
	DueDate         *string             `json:"due_date" binding:"required,datetime=2006-01-02"`
	GuideName       *string             `json:"guide_name" binding:"required"`
	Items           []CreateInvoiceItem `json:"items" binding:"required,min=1,dive"`
	TaxRate         *float64            `json:"tax_rate" binding:"omitempty,gte=0,lte=100"`
	Discount        *float64            `json:"discount" binding:"omitempty,gte=0"`
	Notes           *string             `json:"notes"`
	Currency        *string             `json:"currency"`
}

// nonNullFields are optional fields that may be omitted but never sent as null
var nonNullFields = []struct {
	name string
	typ  reflect.Type
}{
	{"tax_rate", reflect.TypeOf(float64(0))},
	{"discount", reflect.TypeOf(float64(0))},
	{"currency", reflect.TypeOf("")},
}

// UnmarshalJSON decodes the request and rejects an explicit null for
// tax_rate, discount or currency. Omitting them applies the defaults.
func (r *CreateInvoiceRequest) UnmarshalJSON(data []byte) error {
	type plain CreateInvoiceRequest
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Type == reflect.TypeOf(plain{}) {
			typeErr.Type = reflect.TypeOf(CreateInvoiceRequest{})
		}
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, f := range nonNullFields {
		if v, ok := raw[f.name]; ok && bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return &json.UnmarshalTypeError{Value: "null", Type: f.typ, Field: f.name}
		}
	}
	return nil
}

// ToRecord converts a bound request into a domain record, applying the
// defaults for omitted optional fields.
func (r *CreateInvoiceRequest) ToRecord() (*invoice.Record, error) {
	bookingDate, err := invoice.ParseDate(deref(r.BookingDate))
	if err != nil {
		return nil, fmt.Errorf("booking_date: %w", err)
	}
	dueDate, err := invoice.ParseDate(deref(r.DueDate))
	if err != nil {
		return nil, fmt.Errorf("due_date: %w", err)
	}

	items := make([]invoice.LineItem, 0, len(r.Items))
	for _, it := range r.Items {
		item := invoice.LineItem{Description: deref(it.Description)}
		if it.Quantity != nil {
			item.Quantity = *it.Quantity
		}
		if it.UnitPrice != nil {
			item.UnitPrice = decimal.NewFromFloat(*it.UnitPrice)
		}
		items = append(items, item)
	}

	rec := &invoice.Record{
		InvoiceNumber:   deref(r.InvoiceNumber),
		CustomerName:    deref(r.CustomerName),
		CustomerEmail:   deref(r.CustomerEmail),
		CustomerAddress: deref(r.CustomerAddress),
		BookingDate:     bookingDate,
		DueDate:         dueDate,
		GuideName:       deref(r.GuideName),
		Items:           items,
		TaxRate:         decimal.Zero,
		Discount:        decimal.Zero,
		Notes:           r.Notes,
		Currency:        invoice.DefaultCurrency,
	}
	if r.TaxRate != nil {
		rec.TaxRate = decimal.NewFromFloat(*r.TaxRate)
	}
	if r.Discount != nil {
		rec.Discount = decimal.NewFromFloat(*r.Discount)
	}
	if r.Currency != nil {
		rec.Currency = *r.Currency
	}
	return rec, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
