package errors

// Code is a machine-readable error code shared by every storage operation.
type Code string

// Storage taxonomy codes. Every failure surfaced by a Store or Backend
// carries exactly one of these.
const (
	// CodeNotFound indicates no object exists under the requested key.
	CodeNotFound Code = "NOT_FOUND"
	// CodeBackendUnavailable indicates a network/transport failure or timeout.
	// The caller must treat the operation's outcome as unknown.
	CodeBackendUnavailable Code = "BACKEND_UNAVAILABLE"
	// CodeBackendRejected indicates the backend refused the request
	// (auth failure, quota, malformed key). Not retryable as-is.
	CodeBackendRejected Code = "BACKEND_REJECTED"
	// CodeConfiguration indicates required backend configuration was missing
	// or invalid at construction time.
	CodeConfiguration Code = "CONFIGURATION_ERROR"
	// CodeInvalidInput indicates the caller supplied an invalid argument
	// (e.g. an empty object key).
	CodeInvalidInput Code = "INVALID_INPUT"
)

var retryableCodes = map[Code]bool{
	CodeBackendUnavailable: true,
}

// IsRetryableCode reports whether operations failing with this code are
// safe to retry with backoff.
func IsRetryableCode(code Code) bool {
	return retryableCodes[code]
}
