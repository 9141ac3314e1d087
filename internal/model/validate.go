package model

import (
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ValidateWorkItem checks a WorkItem for constraint violations.
// It returns a *ValidationError if any rules fail, or nil if the item is valid.
func ValidateWorkItem(w *WorkItem) error {
	var ve ValidationError

	// Name: required and at most 500 characters.
	name := strings.TrimSpace(w.Name)
	if name == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "is required"})
	} else if len([]rune(name)) > 500 {
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "must be 500 characters or fewer"})
	}

	// Type: must be a valid enum value (closed set).
	if !w.Type.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "type",
			Message: fmt.Sprintf("invalid value %q", w.Type),
		})
	}

	// Status: must be a valid enum value (closed set).
	if !w.Status.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "status",
			Message: fmt.Sprintf("invalid value %q", w.Status),
		})
	}

	// Priority: must be 0-4.
	if w.Priority < 0 || w.Priority > 4 {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "priority",
			Message: fmt.Sprintf("must be between 0 and 4, got %d", w.Priority),
		})
	}

	// EstimatedDays: negative estimates are meaningless.
	if w.EstimatedDays < 0 {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "estimated_days",
			Message: fmt.Sprintf("must not be negative, got %g", w.EstimatedDays),
		})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateConnection checks a Connection for constraint violations.
// Endpoint existence is checked separately at graph-build time, where the
// full item set is known.
func ValidateConnection(c *Connection) error {
	var ve ValidationError

	if c.SourceID == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "source_id", Message: "is required"})
	}
	if c.TargetID == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "target_id", Message: "is required"})
	}

	// Self-loops are rejected at creation, not just at analysis time.
	if c.SourceID != "" && c.SourceID == c.TargetID {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "target_id",
			Message: "must differ from source_id (self-loops are not allowed)",
		})
	}

	if !c.Type.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "type",
			Message: fmt.Sprintf("invalid value %q", c.Type),
		})
	}

	if c.Strength < 0 || c.Strength > 1 {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "strength",
			Message: fmt.Sprintf("must be between 0.0 and 1.0, got %g", c.Strength),
		})
	}

	if !c.Status.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "status",
			Message: fmt.Sprintf("invalid value %q", c.Status),
		})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
