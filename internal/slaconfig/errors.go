package slaconfig

import (
	"fmt"

	"github.com/google/uuid"
)

// FieldError describes a single validation failure tied to a field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a candidate configuration violates
// structural or business rules. It blocks the mutation it was raised for and
// is never treated as a system fault.
type ValidationError struct {
	Errors   []FieldError `json:"errors"`
	Warnings []string     `json:"warnings,omitempty"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation failed: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation failed: %d errors", len(e.Errors))
}

// ItemError records one item's failure within a bulk operation. Index refers
// to the item's position in the request payload; errors are reported in input
// order.
type ItemError struct {
	Index   int        `json:"index"`
	ID      *uuid.UUID `json:"id,omitempty"`
	Message string     `json:"message"`
}
