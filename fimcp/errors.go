package fimcp

import (
	"errors"
	"fmt"
	"net"
)

var (
	// ErrProbeFailed is returned when the backend rejects the first, unauthenticated, tool call.
	ErrProbeFailed = errors.New("probe failed")
	// ErrAuthenticationFailed is returned when the backend rejects the login form.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrRecordFetchFailed is returned when an authorized tool call is rejected.
	ErrRecordFetchFailed = errors.New("record fetch failed")
	// ErrNotAuthenticated is returned when calling a tool on a session that did not complete the handshake.
	ErrNotAuthenticated = errors.New("session is not authenticated")
	// ErrMalformedEnvelope is returned when the outer JSON-RPC layer cannot be decoded.
	ErrMalformedEnvelope = errors.New("malformed tool result envelope")
	// ErrMalformedRecord is returned when the inner JSON document cannot be decoded.
	ErrMalformedRecord = errors.New("malformed record payload")
)

// StatusError reports a non 200 HTTP status. It matches the sentinel of the step it failed.
type StatusError struct {
	Step       string // "probe", "login" or the record type
	StatusCode int
	Status     string
	kind       error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: %s returned %s", e.kind, e.Step, e.Status)
}

func (e *StatusError) Unwrap() error { return e.kind }

// TransportError reports a request that got no HTTP response at all: connection refused, timeout, cancellation.
type TransportError struct {
	Step string
	URL  string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("cannot reach %s during %s: %v", e.URL, e.Step, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the request timed out.
func (e *TransportError) Timeout() bool {
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}
