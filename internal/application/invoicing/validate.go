package invoicing

import (
	"fmt"

	"github.com/guidebooker/invoice-service/internal/domain/invoice"
	"github.com/guidebooker/invoice-service/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var maxTaxRate = decimal.NewFromInt(100)

// ValidateRecord checks the range constraints a booking must satisfy before
// it can be rendered. It returns a VALIDATION_ERROR listing every violation.
func ValidateRecord(rec *invoice.Record) error {
	if rec == nil {
		return shared.NewValidationError([]shared.FieldViolation{{Field: "record", Message: "is required"}})
	}

	var violations []shared.FieldViolation
	add := func(field, msg string) {
		violations = append(violations, shared.FieldViolation{Field: field, Message: msg})
	}

	if rec.BookingDate.IsZero() {
		add("booking_date", "is required")
	}
	if rec.DueDate.IsZero() {
		add("due_date", "is required")
	}
	if len(rec.Items) == 0 {
		add("items", "must contain at least 1 item")
	}
	for i, item := range rec.Items {
		if item.Quantity < 1 {
			add(fmt.Sprintf("items[%d].quantity", i), "must be greater than or equal to 1")
		}
		if item.UnitPrice.IsNegative() {
			add(fmt.Sprintf("items[%d].unit_price", i), "must be greater than or equal to 0")
		}
	}
	if rec.TaxRate.IsNegative() || rec.TaxRate.GreaterThan(maxTaxRate) {
		add("tax_rate", "must be between 0 and 100")
	}
	if rec.Discount.IsNegative() {
		add("discount", "must be greater than or equal to 0")
	}

	if len(violations) > 0 {
		return shared.NewValidationError(violations)
	}
	return nil
}
