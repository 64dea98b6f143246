package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrUnexpectedStatus is the sentinel behind every StatusError
var ErrUnexpectedStatus = errors.New("unexpected status code")

// StatusError is returned when the node answers with a non-200 HTTP status
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s, body: %s", ErrUnexpectedStatus, e.Status, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// ErrorCause is the structured cause NEAR attaches to handler errors
type ErrorCause struct {
	Name string          `json:"name"`
	Info json.RawMessage `json:"info,omitempty"`
}

// RPCError is a JSON-RPC error object returned by a NEAR node
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Name    string          `json:"name,omitempty"`
	Cause   *ErrorCause     `json:"cause,omitempty"`
}

func (e *RPCError) Error() string {
	msg := "RPC error"
	if e.Name != "" {
		msg += " " + e.Name
	}
	if e.Cause != nil && e.Cause.Name != "" {
		msg += " (" + e.Cause.Name + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if len(e.Data) > 0 {
		msg += ": " + string(e.Data)
	}
	return msg
}

func (e *RPCError) causeName() string {
	if e.Cause == nil {
		return ""
	}
	return e.Cause.Name
}

// IsTimeout reports whether the node gave up waiting for the transaction
func (e *RPCError) IsTimeout() bool {
	return e.Name == "TIMEOUT_ERROR" || e.causeName() == "TIMEOUT_ERROR"
}

// IsAccessKeyNotFound reports whether err says the queried access key does not exist
func IsAccessKeyNotFound(err error) bool {
	var rpcErr *RPCError
	return errors.As(err, &rpcErr) && rpcErr.causeName() == "UNKNOWN_ACCESS_KEY"
}

// isRetryable is true for node timeouts and transient HTTP statuses only
func isRetryable(err error) bool {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr.IsTimeout()
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusRequestTimeout ||
			statusErr.StatusCode == http.StatusServiceUnavailable
	}
	return false
}
