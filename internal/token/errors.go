package token

import (
	"errors"
	"fmt"
)

// Reason classifies authentication failures.
type Reason string

const (
	// ReasonTimeout means the identity provider did not answer in time.
	ReasonTimeout Reason = "timeout"

	// ReasonRejected means the identity provider answered with a non-200.
	ReasonRejected Reason = "rejected"

	// ReasonTransport covers connection and TLS failures.
	ReasonTransport Reason = "transport"

	// ReasonMalformedResponse means a 200 without both expected tokens.
	ReasonMalformedResponse Reason = "malformed_response"
)

// AuthError is the normalized authentication failure. The relay layer
// surfaces it to callers prefixed with "Authentication failed: ".
type AuthError struct {
	Reason     Reason
	StatusCode int
	Err        error
}

func (e *AuthError) Error() string {
	switch e.Reason {
	case ReasonTimeout:
		return "authentication request timed out"
	case ReasonRejected:
		return fmt.Sprintf("authentication rejected with status code: %d", e.StatusCode)
	case ReasonMalformedResponse:
		return "identity provider returned a malformed response"
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "authentication transport failure"
	}
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// AsAuthError extracts an AuthError from an error chain.
func AsAuthError(err error) (*AuthError, bool) {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
