package usecase

import (
	"errors"
	"fmt"

	"streaming-catalog/pkg/utils"
)

// Error kinds returned by services; the HTTP layer maps each to a status code.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrLockedOut          = errors.New("account is temporarily locked")
	ErrForbidden          = errors.New("forbidden")
	ErrUpstream           = errors.New("upstream service failed")
	ErrUnavailable        = errors.New("service unavailable")
)

// ValidationError carries field-keyed messages for the client.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + utils.FormatValidationErrors(e.Fields)
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// validate runs the struct tags and returns a *ValidationError when any fail.
func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func notFound(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// fieldErrors collects validation messages across several checks.
type fieldErrors map[string]string

func (f fieldErrors) add(field, message string) {
	if _, exists := f[field]; !exists {
		f[field] = message
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}
