package task

import "errors"

var (
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrNotFound        = errors.New("task not found")
	ErrInvalidCategory = errors.New("unknown category")
	ErrInvalidPriority = errors.New("unknown priority")
	ErrInvalidFilter   = errors.New("unknown filter")
	ErrInvalidSort     = errors.New("unknown sort")
)

// ValidationError rejects user input before any state changes.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
