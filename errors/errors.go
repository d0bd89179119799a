// Package errors defines the backend-agnostic error taxonomy for object
// storage operations. Backend adapters translate their SDK-specific failures
// into these types so callers never inspect backend error shapes.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error is the unified storage error type.
type Error struct {
	// Code is the taxonomy code.
	Code Code `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried with backoff.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context (key, operation, field).
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying backend error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates an Error with automatic retryable detection.
func New(code Code, message string, httpStatus int) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Constructors, one per taxonomy code ---

// NotFound creates an Error for a key with no stored object behind it.
func NotFound(key string) *Error {
	return &Error{
		Code: CodeNotFound, Message: fmt.Sprintf("object %q not found", key),
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"key": key},
	}
}

// Unavailable creates an Error for a transport failure or timeout during op.
func Unavailable(op string, cause error) *Error {
	return &Error{
		Code: CodeBackendUnavailable, Message: fmt.Sprintf("storage backend unreachable during %s", op),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"operation": op},
		Cause:   cause,
	}
}

// Rejected creates an Error for a request the backend refused to serve.
func Rejected(op string, cause error) *Error {
	return &Error{
		Code: CodeBackendRejected, Message: fmt.Sprintf("storage backend rejected %s", op),
		HTTPStatus: http.StatusBadGateway, Retryable: false,
		Details: map[string]any{"operation": op},
		Cause:   cause,
	}
}

// Configuration creates an Error for missing or invalid backend configuration.
func Configuration(reason string) *Error {
	return &Error{
		Code: CodeConfiguration, Message: reason,
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
	}
}

// InvalidInput creates an Error for a bad caller-supplied argument.
func InvalidInput(field, reason string) *Error {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &Error{
		Code: CodeInvalidInput, Message: fmt.Sprintf("invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// --- Predicates ---

// AsError extracts an *Error from err's chain, or nil.
func AsError(err error) *Error {
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}
	return nil
}

func hasCode(err error, code Code) bool {
	if e := AsError(err); e != nil {
		return e.Code == code
	}
	return false
}

// IsNotFound reports whether err means the key has no object behind it.
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

// IsUnavailable reports whether err is a transport failure; the operation's
// outcome is unknown and a retry with backoff is reasonable.
func IsUnavailable(err error) bool { return hasCode(err, CodeBackendUnavailable) }

// IsRejected reports whether the backend refused the request.
func IsRejected(err error) bool { return hasCode(err, CodeBackendRejected) }

// IsConfiguration reports whether the provider was built from incomplete config.
func IsConfiguration(err error) bool { return hasCode(err, CodeConfiguration) }

// IsInvalidInput reports whether the caller supplied a bad argument.
func IsInvalidInput(err error) bool { return hasCode(err, CodeInvalidInput) }

// IsRetryable reports whether err is safe to retry with backoff.
func IsRetryable(err error) bool {
	if e := AsError(err); e != nil {
		return e.Retryable
	}
	return false
}
