// Package errors provides structured error types for flowboard.
//
// Every layer reports failures as an [*Error] carrying a [Code]; the CLI
// prints the message and the HTTP API maps the code to a status.
//
// # Error Codes
//
// Codes fall into two groups. Structural codes (LAYOUT_FAILED, INVALID_GRAPH,
// UNKNOWN_NODE, DUPLICATE_NODE) describe a diagram that could not be laid out
// or derived. Gesture codes (INVALID_PORT_INDEX, DUPLICATE_EDGE, SAME_NODE,
// NO_PENDING_EDGE, EDGE_ID_COLLISION) describe an interaction that was absorbed by the state
// machine: the controller has already returned to idle and no notification
// fired.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidPortIndex, "input %d out of range", i)
//	if errors.Is(err, errors.ErrCodeInvalidPortIndex) {
//	    // gesture was rejected
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeLayout, origErr, "oracle %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidGraph  Code = "INVALID_GRAPH"
	ErrCodeUnknownNode   Code = "UNKNOWN_NODE"
	ErrCodeDuplicateNode Code = "DUPLICATE_NODE"

	// Layout errors
	ErrCodeLayout Code = "LAYOUT_FAILED"

	// Gesture errors, always absorbed by the interaction controller
	ErrCodeInvalidPortIndex Code = "INVALID_PORT_INDEX"
	ErrCodeDuplicateEdge    Code = "DUPLICATE_EDGE"
	ErrCodeSameNode         Code = "SAME_NODE"
	ErrCodeNoPendingEdge    Code = "NO_PENDING_EDGE"
	ErrCodeEdgeIDCollision  Code = "EDGE_ID_COLLISION"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// gestureCodes are absorbed by the interaction controller.
var gestureCodes = map[Code]bool{
	ErrCodeInvalidPortIndex: true,
	ErrCodeDuplicateEdge:    true,
	ErrCodeSameNode:         true,
	ErrCodeNoPendingEdge:    true,
	ErrCodeEdgeIDCollision:  true,
}

// IsGesture reports whether c is a gesture code.
func (c Code) IsGesture() bool { return gestureCodes[c] }

// Error is a coded error. Cause is optional.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the cause so that errors.Is and errors.As see through e.
func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// As returns the outermost *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := As(err)
	return ok && e.Code == code
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// if there is none.
func GetCode(err error) Code {
	if e, ok := As(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of a coded error without its code, or
// err.Error() for other errors.
func UserMessage(err error) string {
	if e, ok := As(err); ok {
		return e.Message
	}
	return err.Error()
}

// IsGesture reports whether err carries a gesture code.
func IsGesture(err error) bool { return GetCode(err).IsGesture() }
