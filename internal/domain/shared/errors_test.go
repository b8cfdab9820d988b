package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Error(t *testing.T) {
	err := NewDomainError("INVALID_MARGINS", "Margins cannot be negative")
	assert.Equal(t, "Margins cannot be negative", err.Error())
	assert.Equal(t, "INVALID_MARGINS", err.Code)
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError([]FieldViolation{
		{Field: "items", Message: "Must contain at least one item"},
		{Field: "tax_rate", Message: "Must be between 0 and 100"},
	})

	assert.Equal(t, "VALIDATION_ERROR", err.Code)
	assert.Len(t, err.Violations, 2)
	assert.Equal(t,
		"Validation failed (items: Must contain at least one item; tax_rate: Must be between 0 and 100)",
		err.Error())
}
