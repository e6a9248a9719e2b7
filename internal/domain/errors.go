package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound            = errors.New("not found")
	ErrAlreadyExists       = errors.New("already exists")
	ErrValidation          = errors.New("validation error")
	ErrInsufficientEntries = errors.New("insufficient entries")
	ErrMalformedArtifact   = errors.New("malformed artifact")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// InsufficientEntriesError reports a sample request larger than the population.
type InsufficientEntriesError struct {
	Language  string
	Requested int
	Available int
}

func (e *InsufficientEntriesError) Error() string {
	return fmt.Sprintf("language %s: requested %d entries, only %d available", e.Language, e.Requested, e.Available)
}

func (e *InsufficientEntriesError) Unwrap() error { return ErrInsufficientEntries }
