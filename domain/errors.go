package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeUnavailable  ErrorCode = "UNAVAILABLE"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Invalidf builds a validation error with a formatted message.
func Invalidf(format string, args ...any) *Error {
	return NewError(ErrCodeInvalid, fmt.Sprintf(format, args...))
}

// Common domain errors.
var (
	ErrTaskNotFound       = NewError(ErrCodeNotFound, "task not found")
	ErrSnapshotNotFound   = NewError(ErrCodeNotFound, "snapshot not found")
	ErrTimerNotFound      = NewError(ErrCodeNotFound, "timer state not found")
	ErrDuplicateTaskID    = NewError(ErrCodeConflict, "duplicate task id")
	ErrEmptyTitle         = NewError(ErrCodeInvalid, "title must not be empty")
	ErrInvalidAmount      = NewError(ErrCodeInvalid, "experience amount must not be negative")
	ErrInvalidPayload     = NewError(ErrCodeInvalid, "invalid payload")
	ErrStorageUnavailable = NewError(ErrCodeUnavailable, "storage unavailable")
	ErrStateNotLoaded     = NewError(ErrCodeUnavailable, "stored state was never loaded, refusing to overwrite it")
	ErrUnauthorized       = NewError(ErrCodeUnauthorized, "unauthorized")
)

// Unavailable classifies an infrastructure failure as a storage outage.
func Unavailable(op string, err error) *Error {
	return WrapError(ErrCodeUnavailable, op, err)
}

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
