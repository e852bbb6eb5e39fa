package domain

import (
	"errors"
	"fmt"
)

// ValidationError is a client input fault on a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// TaskNotFoundError means the task does not exist or belongs to another tenant.
// The two cases are deliberately indistinguishable.
type TaskNotFoundError struct {
	TaskID   int64
	TenantID string
}

func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("task %d not found for tenant %s", e.TaskID, e.TenantID)
}

// StoreError wraps an infrastructure failure with the operation that was attempted.
type StoreError struct {
	Operation string
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("database %s operation failed: %v", e.Operation, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// WrapStoreError passes validation and not-found errors through untouched and
// wraps anything else into a StoreError for op.
func WrapStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	var nf *TaskNotFoundError
	var se *StoreError
	if errors.As(err, &ve) || errors.As(err, &nf) || errors.As(err, &se) {
		return err
	}
	return &StoreError{Operation: op, Err: err}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is (or wraps) a TaskNotFoundError.
func IsNotFound(err error) bool {
	var nf *TaskNotFoundError
	return errors.As(err, &nf)
}
