// Package errors provides structured error handling for TraceForge.
// Errors carry codes for programmatic handling, key-value context,
// and captured stack traces.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Code identifies an error class for programmatic handling.
type Code string

const (
	// Catalog/configuration defects (1xx). Always fatal, detected at
	// construction time and never tolerated mid-run.
	CodeCatalogInvalid Code = "E101"
	CodeCatalogEmpty   Code = "E102"
	CodeEmptyStage     Code = "E103"
	CodeConfigInvalid  Code = "E104"

	// Invalid caller input (2xx). Rejected before any event is produced.
	CodeInvalidInput Code = "E201"

	// Output errors (3xx).
	CodeWriteFailed Code = "E301"
	CodeReadFailed  Code = "E302"

	// Inspection errors (5xx).
	CodeInspectFailed Code = "E501"

	// Unknown.
	CodeUnknown Code = "E999"
)

// TraceForgeError is the base error type for all TraceForge errors.
type TraceForgeError struct {
	Code       Code
	Message    string
	Cause      error
	Context    map[string]interface{}
	StackTrace []Frame
}

// Frame represents a stack frame.
type Frame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface.
func (e *TraceForgeError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if len(e.Context) > 0 {
		sb.WriteString(" (")
		first := true
		for k, v := range e.Context {
			if !first {
				sb.WriteString(", ")
			}
			sb.WriteString(fmt.Sprintf("%s=%v", k, v))
			first = false
		}
		sb.WriteString(")")
	}

	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}

	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *TraceForgeError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches a target error by code.
func (e *TraceForgeError) Is(target error) bool {
	if t, ok := target.(*TraceForgeError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithContext adds context to the error.
func (e *TraceForgeError) WithContext(key string, value interface{}) *TraceForgeError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new TraceForgeError.
func New(code Code, message string) *TraceForgeError {
	return &TraceForgeError{
		Code:       code,
		Message:    message,
		StackTrace: captureStack(2),
	}
}

// Newf creates a new TraceForgeError with a formatted message.
func Newf(code Code, format string, args ...interface{}) *TraceForgeError {
	return &TraceForgeError{
		Code:       code,
		Message:    fmt.Sprintf(format, args...),
		StackTrace: captureStack(2),
	}
}

// Wrap wraps an existing error with a code and message.
func Wrap(err error, code Code, message string) *TraceForgeError {
	if err == nil {
		return nil
	}
	return &TraceForgeError{
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: captureStack(2),
	}
}

// CodeOf extracts the code from an error, or CodeUnknown.
func CodeOf(err error) Code {
	var tfe *TraceForgeError
	if errors.As(err, &tfe) {
		return tfe.Code
	}
	return CodeUnknown
}

func captureStack(skip int) []Frame {
	const maxFrames = 16
	pcs := make([]uintptr, maxFrames)
	n := runtime.Callers(skip+1, pcs)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	var out []Frame
	for {
		frame, more := frames.Next()
		out = append(out, Frame{
			Function: frame.Function,
			File:     frame.File,
			Line:     frame.Line,
		})
		if !more {
			break
		}
	}
	return out
}
