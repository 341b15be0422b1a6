// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Ledger errors. Every error returned by the stores wraps one of these.
var (
	// ErrValidation marks a malformed entity or a violated invariant.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an operation whose target id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrCategoryInUse marks a mutation blocked because transactions reference the category.
	ErrCategoryInUse = errors.New("category in use")
	// ErrParse marks a malformed import payload.
	ErrParse = errors.New("parse failed")
	// ErrPersistence marks a storage read or write failure.
	ErrPersistence = errors.New("persistence failed")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// CategoryInUseError reports which category was protected and how many
// transactions still reference it.
type CategoryInUseError struct {
	CategoryID   string
	Name         string
	Transactions int
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("category %q is used by %d transaction(s)", e.Name, e.Transactions)
}

// Is lets errors.Is(err, ErrCategoryInUse) match.
func (e *CategoryInUseError) Is(target error) bool {
	return target == ErrCategoryInUse
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// Validationf wraps ErrValidation with a formatted detail message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundf wraps ErrNotFound with a formatted detail message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return true
}

// Describe turns a ledger error into the message shown by the CLI.
func Describe(err error) string {
	var inUse *CategoryInUseError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &inUse):
		return fmt.Sprintf("Category %q is used by %d transaction(s); delete or move them first", inUse.Name, inUse.Transactions)
	case errors.Is(err, ErrNotFound):
		return "Nothing matches that id"
	case errors.Is(err, ErrParse):
		return "The import file is not valid JSON"
	case errors.Is(err, ErrValidation):
		return "The data is invalid"
	case errors.Is(err, ErrPersistence):
		return "The change was applied but could not be saved to disk"
	default:
		return "Unexpected error"
	}
}
