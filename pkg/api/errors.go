// Package api defines the shared error taxonomy for the wordware-mcp adapter.
//
// Registration-time errors (auth, not found, transient network, malformed
// response) are produced while fetching tool metadata; call-time errors
// (parameter format, remote execution, stream decode, timeout, empty result)
// are produced while executing a tool. Both phases use the same structured
// Error type so callers can branch on ErrorType.
package api

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of an adapter error.
type ErrorType string

const (
	// Registration-time error types.
	ErrorTypeAuth              ErrorType = "auth_error"
	ErrorTypeNotFound          ErrorType = "not_found"
	ErrorTypeTransientNetwork  ErrorType = "transient_network"
	ErrorTypeMalformedResponse ErrorType = "malformed_response"

	// Call-time error types.
	ErrorTypeParameterFormat ErrorType = "parameter_format"
	ErrorTypeRemoteExecution ErrorType = "remote_execution"
	ErrorTypeStreamDecode    ErrorType = "stream_decode"
	ErrorTypeTimeout         ErrorType = "timeout"
	ErrorTypeEmptyResult     ErrorType = "empty_result"
)

// Error is a structured adapter error with a type and message.
type Error struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// IsType reports whether err is an *Error of the given type.
func IsType(err error, t ErrorType) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Type == t
	}
	return false
}

// NewAuthError creates an Error for rejected credentials.
func NewAuthError(message string) *Error {
	return &Error{Type: ErrorTypeAuth, Message: message}
}

// NewNotFoundError creates an Error for identifiers unknown to the remote service.
func NewNotFoundError(message string) *Error {
	return &Error{Type: ErrorTypeNotFound, Message: message}
}

// NewTransientNetworkError creates an Error for timeouts and connection
// failures. Callers may retry these.
func NewTransientNetworkError(message string) *Error {
	return &Error{Type: ErrorTypeTransientNetwork, Message: message}
}

// NewMalformedResponseError creates an Error for responses that cannot be
// parsed into the expected shape.
func NewMalformedResponseError(message string) *Error {
	return &Error{Type: ErrorTypeMalformedResponse, Message: message}
}

// NewParameterFormatError creates an Error for invocation arguments that
// cannot be normalized.
func NewParameterFormatError(message string) *Error {
	return &Error{Type: ErrorTypeParameterFormat, Message: message}
}

// NewRemoteExecutionError creates an Error for failed remote tool runs.
func NewRemoteExecutionError(message string) *Error {
	return &Error{Type: ErrorTypeRemoteExecution, Message: message}
}

// NewStreamDecodeError creates an Error for malformed event framing in the
// execution stream.
func NewStreamDecodeError(message string) *Error {
	return &Error{Type: ErrorTypeStreamDecode, Message: message}
}

// NewTimeoutError creates an Error for streams that go idle past the bounded
// idle window.
func NewTimeoutError(message string) *Error {
	return &Error{Type: ErrorTypeTimeout, Message: message}
}

// NewEmptyResultError creates an Error for streams that close without
// emitting any output.
func NewEmptyResultError(message string) *Error {
	return &Error{Type: ErrorTypeEmptyResult, Message: message}
}
