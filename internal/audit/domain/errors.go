package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound signals that the targeted entity does not exist or is soft-deleted.
var ErrNotFound = errors.New("entity not found")

// ErrConflict signals that a concurrent writer invalidated the read state.
// Callers should re-read and retry the command.
var ErrConflict = errors.New("concurrent modification detected")

// ValidationError carries field-level detail for malformed or
// referentially-invalid input. A command failing validation is never
// partially applied.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError with a single field message.
func NewValidationError(field, message string) *ValidationError {
	err := &ValidationError{Fields: map[string]string{}}
	err.Add(field, message)
	return err
}

// Add records a message for field, keeping the first message per field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

// Empty reports whether no field messages were recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// InvalidTransitionError rejects a lifecycle jump the status machine forbids.
type InvalidTransitionError struct {
	From AuditStatus
	To   AuditStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid audit status transition from %q to %q", e.From, e.To)
}
