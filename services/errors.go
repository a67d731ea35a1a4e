package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeForbidden    ErrorType = "forbidden"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeInternal     ErrorType = "internal"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// Domain error variables

var (
	// ErrBadCredentials deliberately does not distinguish an unknown
	// username from a wrong password or a disabled account
	ErrBadCredentials = NewDomainError(ErrorTypeValidation, "invalid username or password", nil)

	// Registration conflicts
	ErrUsernameTaken  = NewDomainError(ErrorTypeConflict, "username already exists", nil)
	ErrStudentNoTaken = NewDomainError(ErrorTypeConflict, "student number already exists", nil)
	ErrTeacherNoTaken = NewDomainError(ErrorTypeConflict, "teacher number already exists", nil)

	// Not Found Errors
	ErrScoreNotFound   = NewDomainError(ErrorTypeNotFound, "score not found", nil)
	ErrCourseNotFound  = NewDomainError(ErrorTypeNotFound, "course not found", nil)
	ErrTeacherNotFound = NewDomainError(ErrorTypeNotFound, "teacher record not found", nil)

	// Score conflicts and permissions
	ErrScoreExists    = NewDomainError(ErrorTypeConflict, "score already recorded for this student and course", nil)
	ErrNotCourseOwner = NewDomainError(ErrorTypeForbidden, "course belongs to another teacher", nil)
)

// NewValidationError creates a validation error with a message for the client
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrorTypeValidation, message, nil)
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}

// GetErrorType returns the ErrorType of a domain error, or empty string if
// not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// ClientMessage returns the message safe to send to clients, or empty
// string for non-domain and internal errors
func ClientMessage(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) && domainErr.Type != ErrorTypeInternal {
		return domainErr.Message
	}
	return ""
}

// IsForbiddenError checks if an error is a forbidden error
func IsForbiddenError(err error) bool {
	return GetErrorType(err) == ErrorTypeForbidden
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	return GetErrorType(err) == ErrorTypeInternal
}
