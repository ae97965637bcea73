// Package errors provides standardized error handling for the client core.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Transport failed entirely, no HTTP response was received.
	ErrCodeNetwork ErrorCode = "NETWORK_ERROR"

	// The server answered with a non-2xx status.
	ErrCodeHTTP ErrorCode = "HTTP_ERROR"

	// An operation was attempted against a data source that is not
	// configured for this process.
	ErrCodeNotConfigured ErrorCode = "NOT_CONFIGURED"

	ErrCodeAuthFailed      ErrorCode = "AUTH_FAILED"
	ErrCodeSessionStore    ErrorCode = "SESSION_STORE_ERROR"
	ErrCodeDecodeFailed    ErrorCode = "DECODE_FAILED"
	ErrCodeRealtimeClosed  ErrorCode = "REALTIME_CLOSED"
	ErrCodeMessageRejected ErrorCode = "MESSAGE_REJECTED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. API Error Envelope
// ==========================

// APIError is the wire-level error half of the gateway's response envelope.
// Status is the HTTP status for non-2xx responses, zero for transport errors.
type APIError struct {
	Message string    `json:"message"`
	Code    ErrorCode `json:"code,omitempty"`
	Status  int       `json:"status,omitempty"`
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error [%s]: %s", e.Code, e.Message)
}

// ==========================
// 3. Error Constructors
// ==========================

// NewNetworkError creates a retryable transport-level error.
func NewNetworkError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNetwork,
		Message:   "Network request failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewHTTPError creates an error for a non-2xx response.
func NewHTTPError(status int, message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeHTTP,
		Message:   message,
		Details:   fmt.Sprintf("status: %d", status),
		Retryable: status >= 500,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotConfiguredError creates a non-retryable configuration error.
func NewNotConfiguredError(source string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotConfigured,
		Message:   fmt.Sprintf("%s is not configured", source),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthFailedError creates a non-retryable authentication error.
func NewAuthFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthFailed,
		Message:   "Authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionStoreError creates a retryable session persistence error.
func NewSessionStoreError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionStore,
		Message:   "Session store operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDecodeError creates a non-retryable response decoding error.
func NewDecodeError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDecodeFailed,
		Message:   "Failed to decode response",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMessageRejectedError creates an error for a chat message the backend
// refused to persist.
func NewMessageRejectedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMessageRejected,
		Message:   "Chat message was not accepted",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Utility Functions
// ==========================

// IsRetryable reports whether err carries a retryable StandardError.
func IsRetryable(err error) bool {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Retryable
	}
	return false
}

// CodeOf extracts the ErrorCode from err, unwrapping as needed, or ""
// when no standard error is in the chain.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
