package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches on the error code so wrapped instances compare equal to
// their predefined counterparts.
func (e *DomainError) Is(target error) bool {
	var domainErr *DomainError
	if errors.As(target, &domainErr) {
		return e.Code == domainErr.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Predefined domain errors
var (
	// User errors
	ErrUserNotFound = NewDomainError("USER_NOT_FOUND", "user not found")
	ErrEmailExists  = NewDomainError("EMAIL_EXISTS", "email already exists")

	// Authentication errors. A single undifferentiated message is exposed to
	// callers so that nothing leaks about which part of the credential failed.
	ErrInvalidCredentials = NewDomainError("INVALID_CREDENTIALS", "invalid credentials")
	ErrSessionInvalid     = NewDomainError("SESSION_INVALID", "invalid session")
	ErrUnauthorized       = NewDomainError("UNAUTHORIZED", "unauthorized")

	// Validation errors
	ErrInvalidInput    = NewDomainError("INVALID_INPUT", "invalid input")
	ErrUnsupportedFile = NewDomainError("UNSUPPORTED_FILE", "unsupported file type")

	// Translation errors
	ErrTranslationNotFound = NewDomainError("TRANSLATION_NOT_FOUND", "translation not found")

	// System errors
	ErrInternal           = NewDomainError("INTERNAL_ERROR", "internal server error")
	ErrServiceUnavailable = NewDomainError("SERVICE_UNAVAILABLE", "service unavailable")
	ErrUpstreamFailed     = NewDomainError("UPSTREAM_FAILED", "upstream provider request failed")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErrorToHTTPStatus(domainErr)
	}

	// Default to internal server error for unknown errors
	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case "INVALID_INPUT", "UNSUPPORTED_FILE", "EMAIL_EXISTS":
		return http.StatusBadRequest

	// 401 Unauthorized
	case "UNAUTHORIZED", "INVALID_CREDENTIALS", "SESSION_INVALID":
		return http.StatusUnauthorized

	// 404 Not Found
	case "USER_NOT_FOUND", "TRANSLATION_NOT_FOUND":
		return http.StatusNotFound

	// 502 Bad Gateway
	case "UPSTREAM_FAILED":
		return http.StatusBadGateway

	// 503 Service Unavailable
	case "SERVICE_UNAVAILABLE":
		return http.StatusServiceUnavailable

	// 500 Internal Server Error (default)
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Message
	}

	return err.Error()
}
