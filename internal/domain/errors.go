package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports input that violates a domain rule.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.Key)
}

// NewNotFoundError creates a NotFoundError for the given entity and lookup key.
func NewNotFoundError(entity, key string) error {
	return &NotFoundError{Entity: entity, Key: key}
}

// InvalidStateError reports a forbidden lifecycle transition.
type InvalidStateError struct {
	From string
	To   string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}

// NewInvalidStateError creates an InvalidStateError.
func NewInvalidStateError(from, to string) error {
	return &InvalidStateError{From: from, To: to}
}

// ConflictError reports a concurrent modification.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// NewConflictError creates a ConflictError with the given message.
func NewConflictError(message string) error {
	return &ConflictError{Message: message}
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsInvalidState reports whether err wraps an InvalidStateError.
func IsInvalidState(err error) bool {
	var target *InvalidStateError
	return errors.As(err, &target)
}

// IsConflict reports whether err wraps a ConflictError.
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}
