package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches a TransportError carrying a 401 status.
	ErrUnauthorized = errors.New("api: unauthorized")
	// ErrNoToken is returned when an authenticated call is attempted without a
	// session token.
	ErrNoToken = errors.New("api: no session token")
)

// TransportError reports a failed exchange with the API: the server could not
// be reached, answered with a non-2xx status, or returned malformed JSON.
type TransportError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("%s %s: status %d: %v", e.Method, e.Path, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	default:
		return fmt.Sprintf("%s %s: transport error", e.Method, e.Path)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *TransportError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// RejectedError is a 2xx envelope with success=false.
type RejectedError struct {
	Path    string
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: request rejected", e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ServerMessage extracts the human-readable message the server attached to a
// failure, if any.
func ServerMessage(err error) string {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return rejected.Message
	}
	var transport *TransportError
	if errors.As(err, &transport) {
		return transport.Message
	}
	return ""
}
