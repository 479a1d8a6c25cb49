// Package domainerrors provides coded errors shared by services and transport.
//
// Stores and infrastructure return sentinel errors (pkg/platform/sentinel)
// describing factual states; services translate those into coded domain errors
// with New and Wrap. Handlers never inspect raw infrastructure errors: they map
// the code onto an HTTP status via ToHTTPStatus and render the message.
//
// Codes are stable, machine-readable strings that appear verbatim in API error
// envelopes. Do not rename them without versioning the API.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code classifies a domain error for transport mapping and logging.
type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation_error"
	CodeInvalidInput       Code = "invalid_input"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeInvariantViolation Code = "invariant_violation"
	CodeUnavailable        Code = "unavailable"
	CodeInternal           Code = "internal_error"
)

// Error is a coded domain error. Message is safe to show to API clients for
// every code except CodeInternal; internal details stay in the wrapped error.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a domain error with the given code and client-safe message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and client-safe message to an underlying error.
// The underlying error remains reachable via errors.Is / errors.As.
// Returns nil if err is nil.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// GetCode returns the code of the outermost domain error in err's chain.
// Returns CodeInternal when err carries no domain error, so untyped errors
// surface as opaque server faults rather than leaking detail.
func GetCode(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether any domain error in err's chain carries the code.
func HasCode(err error, code Code) bool {
	for e := err; e != nil; {
		var de *Error
		if !errors.As(e, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		e = de.Err
	}
	return false
}

// Is is shorthand for HasCode, matching the errors.Is naming convention.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// ToHTTPStatus maps a domain error code onto an HTTP status.
// Unknown codes map to 500 so new codes fail safe until given a mapping.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeValidation, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	case CodeInvariantViolation, CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
