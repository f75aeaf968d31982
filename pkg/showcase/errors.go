package showcase

import (
	"errors"
	"fmt"
)

// Common error variables
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrPortfolioNotFound  = errors.New("portfolio not found")
	ErrAlreadyLiked       = errors.New("portfolio already liked")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDatabaseError      = errors.New("database error")
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeDatabase     ErrorType = "database"
	ErrorTypeInternal     ErrorType = "internal"
)

// Error represents a structured error with additional context
type Error struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(code, message string) *Error {
	return &Error{
		Type:    ErrorTypeNotFound,
		Code:    code,
		Message: message,
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(code, message string) *Error {
	return &Error{
		Type:    ErrorTypeConflict,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(code, message string) *Error {
	return &Error{
		Type:    ErrorTypeValidation,
		Code:    code,
		Message: message,
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(code, message string) *Error {
	return &Error{
		Type:    ErrorTypeUnauthorized,
		Code:    code,
		Message: message,
	}
}

// NewDatabaseError creates a new database error
func NewDatabaseError(code, message string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeDatabase,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(code, message string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeInternal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == ErrorTypeNotFound
	}
	return errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrPortfolioNotFound)
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == ErrorTypeConflict
	}
	return errors.Is(err, ErrUserAlreadyExists) || errors.Is(err, ErrAlreadyLiked)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == ErrorTypeValidation
	}
	return errors.Is(err, ErrInvalidInput)
}

// IsUnauthorizedError checks if the error is an unauthorized error
func IsUnauthorizedError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == ErrorTypeUnauthorized
	}
	return errors.Is(err, ErrInvalidCredentials)
}

// IsDatabaseError checks if the error is a database error
func IsDatabaseError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == ErrorTypeDatabase
	}
	return errors.Is(err, ErrDatabaseError)
}

// IsInternalError checks if the error is an internal error
func IsInternalError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == ErrorTypeInternal
	}
	return false
}
