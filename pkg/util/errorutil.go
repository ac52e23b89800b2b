package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Retryable  bool
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status}
}

// NewAuthenticationFailed returns the generic credential failure. The message
// is identical for an unknown school and a wrong secret so callers cannot
// enumerate school ids.
func NewAuthenticationFailed() error {
	return NewDomainError("AUTHENTICATION_FAILED", "authentication failed, check credentials and retry", http.StatusUnauthorized)
}

// NewSessionExpired signals that a token is unknown, expired, or logged out.
func NewSessionExpired() error {
	return NewDomainError("SESSION_EXPIRED", "session expired, sign in again", http.StatusUnauthorized)
}

// NewRepositoryUnavailable wraps a store fetch failure as a retryable error.
// The wrapped cause stays server-side; the message carries no record detail.
func NewRepositoryUnavailable(err error) error {
	return &DomainError{
		Code:       "REPOSITORY_UNAVAILABLE",
		Message:    "data store unavailable, retry shortly or contact support",
		HTTPStatus: http.StatusServiceUnavailable,
		Retryable:  true,
		Err:        err,
	}
}

// NewInconsistentRecord marks a single malformed record. These are logged and
// skipped per record; they never abort a batch and never reach end users.
func NewInconsistentRecord(collection, reason string) error {
	return &DomainError{
		Code:       "INCONSISTENT_RECORD",
		Message:    fmt.Sprintf("inconsistent record in %s: %s", collection, reason),
		HTTPStatus: http.StatusInternalServerError,
	}
}

func NewValidationError(message string) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsInconsistentRecord reports whether err is a per-record decode failure.
func IsInconsistentRecord(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == "INCONSISTENT_RECORD"
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		if de, ok := NewRepositoryUnavailable(err).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
