package domain

import (
	"errors"
	"fmt"
)

// ErrorType is the stable tag carried on every error response.
type ErrorType string

const (
	ErrorTypeValidation        ErrorType = "VALIDATION_ERROR"
	ErrorTypeIneligibleState   ErrorType = "INELIGIBLE_STATE"
	ErrorTypeDuplicatePending  ErrorType = "DUPLICATE_PENDING"
	ErrorTypeAlreadyReviewed   ErrorType = "ALREADY_REVIEWED"
	ErrorTypeNotFound          ErrorType = "NOT_FOUND"
	ErrorTypeAuthorization     ErrorType = "AUTHORIZATION_ERROR"
	ErrorTypeTransactionFailed ErrorType = "TRANSACTION_FAILED"
	ErrorTypeTimeout           ErrorType = "TIMEOUT_ERROR"
)

// Error is a domain error with a machine-readable type. Services return it
// for every expected failure; anything else is treated as internal.
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewValidationError(format string, args ...any) *Error {
	return &Error{Type: ErrorTypeValidation, Message: fmt.Sprintf(format, args...)}
}

func NewIneligibleStateError(format string, args ...any) *Error {
	return &Error{Type: ErrorTypeIneligibleState, Message: fmt.Sprintf(format, args...)}
}

func NewDuplicatePendingError(format string, args ...any) *Error {
	return &Error{Type: ErrorTypeDuplicatePending, Message: fmt.Sprintf(format, args...)}
}

func NewAlreadyReviewedError(format string, args ...any) *Error {
	return &Error{Type: ErrorTypeAlreadyReviewed, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...any) *Error {
	return &Error{Type: ErrorTypeNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewAuthorizationError(format string, args ...any) *Error {
	return &Error{Type: ErrorTypeAuthorization, Message: fmt.Sprintf(format, args...)}
}

func NewTransactionFailedError(err error) *Error {
	return &Error{Type: ErrorTypeTransactionFailed, Message: "transaction aborted, no changes applied", Err: err}
}

func NewTimeoutError(err error) *Error {
	return &Error{Type: ErrorTypeTimeout, Message: "store did not respond in time", Err: err}
}

// TypeOf extracts the ErrorType from err, if it carries one.
func TypeOf(err error) (ErrorType, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Type, true
	}
	return "", false
}

// IsType reports whether err carries the given ErrorType.
func IsType(err error, t ErrorType) bool {
	et, ok := TypeOf(err)
	return ok && et == t
}
