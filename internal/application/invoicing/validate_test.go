package invoicing_test

import (
	"errors"
	"testing"
	"time"

	"github.com/guidebooker/invoice-service/internal/application/invoicing"
	"github.com/guidebooker/invoice-service/internal/domain/invoice"
	"github.com/guidebooker/invoice-service/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRecord(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*invoice.Record)
		fields []string
	}{
		{"valid", func(*invoice.Record) {}, nil},
		{"boundary values", func(r *invoice.Record) {
			r.TaxRate = decimal.NewFromInt(100)
			r.Discount = decimal.Zero
			r.Items = []invoice.LineItem{{Description: "Tour", Quantity: 1, UnitPrice: decimal.Zero}}
		}, nil},
		{"discount above total is allowed", func(r *invoice.Record) {
			r.Discount = decimal.NewFromInt(10000)
		}, nil},
		{"no items", func(r *invoice.Record) { r.Items = nil }, []string{"items"}},
		{"bad item", func(r *invoice.Record) {
			r.Items[1].Quantity = 0
			r.Items[1].UnitPrice = decimal.NewFromInt(-1)
		}, []string{"items[1].quantity", "items[1].unit_price"}},
		{"tax rate above 100", func(r *invoice.Record) {
			r.TaxRate = decimal.RequireFromString("100.01")
		}, []string{"tax_rate"}},
		{"negative tax and discount", func(r *invoice.Record) {
			r.TaxRate = decimal.NewFromInt(-1)
			r.Discount = decimal.NewFromInt(-5)
		}, []string{"tax_rate", "discount"}},
		{"missing dates", func(r *invoice.Record) {
			r.BookingDate = time.Time{}
			r.DueDate = time.Time{}
		}, []string{"booking_date", "due_date"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := sampleRecord()
			tt.mutate(rec)

			err := invoicing.ValidateRecord(rec)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}

			var domainErr *shared.DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
			var fields []string
			for _, v := range domainErr.Violations {
				fields = append(fields, v.Field)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestValidateRecord_Nil(t *testing.T) {
	assert.Error(t, invoicing.ValidateRecord(nil))
}
