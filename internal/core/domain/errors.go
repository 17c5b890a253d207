// Package domain defines the core domain models for Samus.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain error with a structured error code.
//
// Message is the text surfaced to clients on the wire; Code only
// appears in logs and metrics.
type DomainError struct {
	Code    string // Error code (e.g., "SM-KEY-4040")
	Message string // Client-visible message
	Details string // Optional additional details, never sent to clients
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison by code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ClientMessage returns the message a client should see for err.
// Non-domain errors are reported by their Error() text.
func ClientMessage(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}

// Store errors.
var (
	// ErrKeyNotFound indicates the requested key is absent.
	ErrKeyNotFound = NewDomainError("SM-KEY-4040", "Key not found")

	// ErrInvalidKey indicates a key that cannot be framed on the wire.
	ErrInvalidKey = NewDomainError("SM-KEY-4000", "Invalid key")

	// ErrInvalidValue indicates a value that cannot be framed on the wire.
	ErrInvalidValue = NewDomainError("SM-VAL-4000", "Invalid value")
)

// Request errors.
var (
	// ErrInvalidAction indicates an unrecognized command keyword.
	ErrInvalidAction = NewDomainError("SM-REQ-4000", "Invalid request action")

	// ErrMissingArgument indicates a positional argument is absent.
	ErrMissingArgument = NewDomainError("SM-REQ-4001", "Missing request argument")

	// ErrUnparsableTTL indicates the TTL argument is not a signed integer.
	ErrUnparsableTTL = NewDomainError("SM-REQ-4002", "Unparsable TTL")

	// ErrRequestTooLong indicates a request line over the protocol limit.
	ErrRequestTooLong = NewDomainError("SM-REQ-4130", "Request line too long")
)
