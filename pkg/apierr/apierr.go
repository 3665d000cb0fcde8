// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package apierr defines the tagged error variants every failure in the proxy
// is reported through. Shells match on Kind instead of sniffing message text.
package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind discriminates the failure classes of the proxy.
type Kind string

const (
	// KindConfiguration covers missing or invalid startup configuration.
	KindConfiguration Kind = "configuration"
	// KindUnknownOperation is returned when no registry entry matches the
	// requested operation name.
	KindUnknownOperation Kind = "unknown_operation"
	// KindMissingParameter is returned when a required argument is absent.
	KindMissingParameter Kind = "missing_parameter"
	// KindInvalidArgument covers present-but-malformed arguments, such as a
	// filters value that is not an array.
	KindInvalidArgument Kind = "invalid_argument"
	// KindTransport covers network failures and undecodable upstream bodies.
	KindTransport Kind = "upstream_transport"
	// KindUpstream covers responses where the upstream itself reported failure.
	KindUpstream Kind = "upstream"
)

// Error carries the failure class, the upstream HTTP status when one exists,
// and a human-readable message. Status is zero for failures that never reached
// the upstream.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As checks.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsCaller reports whether the failure was the caller's fault and no upstream
// call was made.
func (e *Error) IsCaller() bool {
	switch e.Kind {
	case KindUnknownOperation, KindMissingParameter, KindInvalidArgument:
		return true
	}
	return false
}

// HTTPStatus maps the variant to the status an HTTP shell should answer with.
// Upstream failures keep the upstream's own status when it is itself an error
// status; an upstream that flags success:false on a 2xx still must surface as
// a non-2xx response, so anything below 400 degrades to Bad Gateway.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindUnknownOperation:
		return http.StatusNotFound
	case KindMissingParameter, KindInvalidArgument:
		return http.StatusBadRequest
	case KindUpstream:
		if e.Status >= http.StatusBadRequest {
			return e.Status
		}
		return http.StatusBadGateway
	case KindTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// UnknownOperation reports a dispatch against a name absent from the registry.
func UnknownOperation(name string) *Error {
	return &Error{Kind: KindUnknownOperation, Message: fmt.Sprintf("unknown operation %q", name)}
}

// MissingParameter reports an absent required argument.
func MissingParameter(operation, param string) *Error {
	return &Error{Kind: KindMissingParameter, Message: fmt.Sprintf("operation %q requires parameter %q", operation, param)}
}

// Invalid reports a present argument that fails validation.
func Invalid(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// Transport wraps a network or decode failure from the upstream round trip.
func Transport(err error) *Error {
	return &Error{Kind: KindTransport, Message: err.Error(), Err: err}
}

// Upstream reports a failure the upstream flagged itself, preserving its
// status code.
func Upstream(status int, message string) *Error {
	return &Error{Kind: KindUpstream, Status: status, Message: message}
}

// failureEnvelope is the normalized failure payload both shells return.
type failureEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Status  int    `json:"status"`
}

// FailureBody renders any error into the normalized failure envelope. Errors
// outside the taxonomy get a 500 status and their plain message.
func FailureBody(err error) []byte {
	env := failureEnvelope{Error: err.Error(), Status: http.StatusInternalServerError}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		env.Error = apiErr.Message
		env.Status = apiErr.HTTPStatus()
	}

	body, marshalErr := json.Marshal(env)
	if marshalErr != nil {
		return []byte(`{"success":false,"error":"failed to encode error","status":500}`)
	}
	return body
}
