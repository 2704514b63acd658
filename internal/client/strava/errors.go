package strava

import (
	"errors"
	"fmt"
	"strings"
)

// Static error definitions for better error handling.
var (
	// ErrUnexpectedHTTPStatus indicates an unexpected HTTP status code was received.
	ErrUnexpectedHTTPStatus = errors.New("unexpected HTTP status")
	// ErrIncompleteToken indicates that a token response lacks required fields.
	ErrIncompleteToken = errors.New("incomplete token response")
	// ErrInvalidTokenResponse indicates that a token response is not valid JSON.
	ErrInvalidTokenResponse = errors.New("invalid token response")
)

// IncompleteTokenError is returned when the token endpoint omits required fields.
type IncompleteTokenError struct {
	// MissingFields lists the absent or empty fields in response order.
	MissingFields []string
}

// Error implements the error interface.
func (e *IncompleteTokenError) Error() string {
	return fmt.Sprintf("%s: missing %s", ErrIncompleteToken, strings.Join(e.MissingFields, ", "))
}

// Unwrap allows errors.Is(err, ErrIncompleteToken).
func (e *IncompleteTokenError) Unwrap() error {
	return ErrIncompleteToken
}
