package domoapi

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrDimLevel is returned for a dimmer level outside 0-100, before anything
// is sent
var ErrDimLevel = errors.New("dimmer level out of range 0-100")

// AuthError is returned when a login request did not yield a client id
type AuthError struct {
	Body []byte
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway login failed: %v", e.Err)
	}

	return fmt.Sprintf("gateway login failed, no client id in response: %s", e.Body)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// TransportError is a failed HTTP exchange: the request could not be
// completed (Err set) or the gateway answered with a non-2xx status
type TransportError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway request failed: %v", e.Err)
	}

	return fmt.Sprintf("unexpected HTTP status %d from gateway: %s", e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UnknownAckError carries a response whose ack reason is neither accepted
// nor session-invalid. The command was not confirmed.
type UnknownAckError struct {
	Reason int64
	Body   []byte
}

func (e *UnknownAckError) Error() string {
	return fmt.Sprintf("unknown ack reason %d from gateway: %s", e.Reason, e.Body)
}

// StaleSessionError is returned when the gateway still rejects the session
// right after logging in again
type StaleSessionError struct {
	Body []byte
}

func (e *StaleSessionError) Error() string {
	return fmt.Sprintf("gateway rejected the session: %s", e.Body)
}

// Continuable reports whether a multi-step sequence may carry on after err.
// Device communication failures are, authentication failures are not.
func Continuable(err error) bool {
	if err == nil {
		return true
	}

	var authErr *AuthError
	if errors.As(err, &authErr) {
		return false
	}

	var transportErr *TransportError
	var ackErr *UnknownAckError
	var staleErr *StaleSessionError

	return errors.As(err, &transportErr) || errors.As(err, &ackErr) || errors.As(err, &staleErr)
}
