package model

import (
	"strings"
	"testing"
)

func validItem() *WorkItem {
	return &WorkItem{
		ID:       "wi-abc123",
		Name:     "Checkout flow rework",
		Type:     TypeFeature,
		Status:   StatusBuild,
		Priority: 2,
	}
}

func TestValidateWorkItem_Valid(t *testing.T) {
	if err := ValidateWorkItem(validItem()); err != nil {
		t.Fatalf("ValidateWorkItem returned unexpected error: %v", err)
	}
}

func TestValidateWorkItem_Invalid(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*WorkItem)
		field  string
	}{
		{"empty name", func(w *WorkItem) { w.Name = "  " }, "name"},
		{"long name", func(w *WorkItem) { w.Name = strings.Repeat("x", 501) }, "name"},
		{"bad type", func(w *WorkItem) { w.Type = "chore" }, "type"},
		{"bad status", func(w *WorkItem) { w.Status = "archived" }, "status"},
		{"priority too high", func(w *WorkItem) { w.Priority = 5 }, "priority"},
		{"priority negative", func(w *WorkItem) { w.Priority = -1 }, "priority"},
		{"negative estimate", func(w *WorkItem) { w.EstimatedDays = -2 }, "estimated_days"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := validItem()
			tc.mutate(w)
			err := ValidateWorkItem(w)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			ve, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			found := false
			for _, fe := range ve.Errors {
				if fe.Field == tc.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on field %q, got %v", tc.field, ve.Errors)
			}
		})
	}
}

func validConnection() *Connection {
	return &Connection{
		ID:       "cx-abc123",
		SourceID: "wi-a",
		TargetID: "wi-b",
		Type:     ConnDependency,
		Strength: 0.8,
		Status:   ConnActive,
	}
}

func TestValidateConnection_Valid(t *testing.T) {
	if err := ValidateConnection(validConnection()); err != nil {
		t.Fatalf("ValidateConnection returned unexpected error: %v", err)
	}
}

func TestValidateConnection_Invalid(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*Connection)
		field  string
	}{
		{"missing source", func(c *Connection) { c.SourceID = "" }, "source_id"},
		{"missing target", func(c *Connection) { c.TargetID = "" }, "target_id"},
		{"self loop", func(c *Connection) { c.TargetID = c.SourceID }, "target_id"},
		{"unknown type", func(c *Connection) { c.Type = "parent-child" }, "type"},
		{"strength too high", func(c *Connection) { c.Strength = 1.5 }, "strength"},
		{"strength negative", func(c *Connection) { c.Strength = -0.1 }, "strength"},
		{"bad status", func(c *Connection) { c.Status = "archived" }, "status"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := validConnection()
			tc.mutate(c)
			err := ValidateConnection(c)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			ve, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			found := false
			for _, fe := range ve.Errors {
				if fe.Field == tc.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on field %q, got %v", tc.field, ve.Errors)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	ve := &ValidationError{Errors: []FieldError{
		{Field: "name", Message: "is required"},
		{Field: "type", Message: `invalid value "chore"`},
	}}
	got := ve.Error()
	want := `validation failed: name: is required; type: invalid value "chore"`
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
