package extract

import (
	"errors"
	"fmt"
)

// ErrorKind classifies gateway failures so the orchestrator can tell
// retryable conditions (rate limit, transient transport) from fatal ones
// (auth, permission, missing document, rejected model output).
type ErrorKind string

const (
	KindAuth        ErrorKind = "AUTH"
	KindPermission  ErrorKind = "PERMISSION"
	KindNotFound    ErrorKind = "NOT_FOUND"
	KindRateLimit   ErrorKind = "RATE_LIMIT"
	KindTransport   ErrorKind = "TRANSPORT"
	KindBadRequest  ErrorKind = "BAD_REQUEST"  // upstream rejected the request
	KindBadResponse ErrorKind = "BAD_RESPONSE" // model output failed validation or decoding
)

// GatewayError is a typed failure from document fetching or field
// extraction.
type GatewayError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *GatewayError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the failure class is worth retrying with
// backoff. Auth, permission, not-found and rejected-output conditions
// never are: the same request would fail the same way.
func (e *GatewayError) Retryable() bool {
	return e.Kind == KindRateLimit || e.Kind == KindTransport
}

// NewGatewayError constructs a GatewayError.
func NewGatewayError(kind ErrorKind, message string, cause error) *GatewayError {
	return &GatewayError{Kind: kind, Message: message, Cause: cause}
}

// IsRetryable reports whether err is a retryable gateway error. Untyped
// errors are not retried.
func IsRetryable(err error) bool {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge.Retryable()
	}
	return false
}

// KindForHTTPStatus maps an upstream HTTP status code onto the error
// taxonomy. Unlisted 4xx codes are bad requests and never retried.
func KindForHTTPStatus(code int) ErrorKind {
	switch {
	case code == 401:
		return KindAuth
	case code == 403:
		return KindPermission
	case code == 404:
		return KindNotFound
	case code == 429:
		return KindRateLimit
	case code >= 500:
		return KindTransport
	default:
		return KindBadRequest
	}
}
