package shared

import "strings"

// FieldViolation names a single input field that failed a constraint
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DomainError represents a domain-level error
type DomainError struct {
	Code       string           `json:"code"`
	Message    string           `json:"message"`
	Violations []FieldViolation `json:"violations,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if len(e.Violations) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a domain error listing the violated fields
func NewValidationError(violations []FieldViolation) *DomainError {
	return &DomainError{
		Code:       "VALIDATION_ERROR",
		Message:    "Validation failed",
		Violations: violations,
	}
}

// Common domain errors
var (
	ErrInvalidInput = NewDomainError("INVALID_INPUT", "Invalid input provided")
)
