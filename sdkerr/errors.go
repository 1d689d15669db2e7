package sdkerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation indicates a validation error.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration indicates a configuration error.
	ErrConfiguration = errors.New("configuration error")
	// ErrRequestFailed indicates the request never produced a response.
	ErrRequestFailed = errors.New("request failed")
	// ErrServerRejected indicates the mock server answered with a non-200 status.
	ErrServerRejected = errors.New("server rejected request")
	// ErrDecodeError indicates a decode error.
	ErrDecodeError = errors.New("decode error")
	// ErrConversion indicates an adapter could not convert between native and canonical form.
	ErrConversion = errors.New("conversion error")
)

// SDKError is a custom error type for the SDK.
type SDKError struct {
	kind     error
	message  string
	cause    error
	op       string
	subsys   string
	verbatim bool
}

// Error returns the error message.
//
// Errors built with WithVerbatimMessage render as the bare message, so text
// produced by the mock server reaches the caller unchanged.
func (e *SDKError) Error() string {
	if e.verbatim {
		return e.message
	}

	var parts []string

	if e.subsys != "" {
		parts = append(parts, fmt.Sprintf("subsys: %s", e.subsys))
	}
	if e.op != "" {
		parts = append(parts, fmt.Sprintf("op: %s", e.op))
	}
	if e.kind != nil {
		parts = append(parts, fmt.Sprintf("kind: %s", e.kind))
	}
	if e.message != "" {
		parts = append(parts, fmt.Sprintf("msg: %s", e.message))
	}
	if e.cause != nil {
		parts = append(parts, fmt.Sprintf("cause: %s", e.cause))
	}

	return strings.Join(parts, " | ")
}

// Is reports whether any error in an SDKError's chain matches target.
func (e *SDKError) Is(target error) bool {
	if e.kind != nil && errors.Is(e.kind, target) {
		return true
	}
	if e.cause != nil && errors.Is(e.cause, target) {
		return true
	}
	return false
}

// As finds the first error in an SDKError's chain that matches target, and if so, sets target to that error value and returns true.
func (e *SDKError) As(target any) bool {
	if e.kind != nil && errors.As(e.kind, target) {
		return true
	}
	if e.cause != nil && errors.As(e.cause, target) {
		return true
	}
	return false
}

// Unwrap returns the cause of the error.
func (e *SDKError) Unwrap() error {
	return e.cause
}

// Kind returns the kind of the error.
func (e *SDKError) Kind() error {
	return e.kind
}

// Message returns the message of the error.
func (e *SDKError) Message() string {
	return e.message
}

// Cause returns the cause of the error.
func (e *SDKError) Cause() error {
	return e.cause
}

// Op returns the operation of the error.
func (e *SDKError) Op() string {
	return e.op
}

// Subsys returns the subsystem of the error.
func (e *SDKError) Subsys() string {
	return e.subsys
}

// NewSDKError creates a new SDKError.
func NewSDKError() *SDKError {
	return &SDKError{}
}

// WithKind sets the kind of the error.
func (e *SDKError) WithKind(kind error) *SDKError {
	e.kind = kind
	return e
}

// WithMessage sets the message of the error.
func (e *SDKError) WithMessage(msg string) *SDKError {
	e.message = msg
	return e
}

// WithVerbatimMessage sets the message and makes Error return it unadorned.
func (e *SDKError) WithVerbatimMessage(msg string) *SDKError {
	e.message = msg
	e.verbatim = true
	return e
}

// WithCause sets the cause of the error.
func (e *SDKError) WithCause(err error) *SDKError {
	e.cause = err
	return e
}

// WithOp sets the operation of the error.
func (e *SDKError) WithOp(op string) *SDKError {
	e.op = op
	return e
}

// WithSubsys sets the subsystem of the error.
func (e *SDKError) WithSubsys(subsys string) *SDKError {
	e.subsys = subsys
	return e
}

// IsClientState reports whether err is a failure of a client exchange with
// the mock server: the request failed, the server rejected it, or its answer
// could not be decoded.
func IsClientState(err error) bool {
	return errors.Is(err, ErrRequestFailed) ||
		errors.Is(err, ErrServerRejected) ||
		errors.Is(err, ErrDecodeError)
}
