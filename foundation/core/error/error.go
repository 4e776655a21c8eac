// File: error.go
// Title: Core Error Implementation
// Description: Implements the main Error type with code, severity, operation,
//              details and a captured stack trace. Compatible with errors.Is and
//              errors.As through Unwrap.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors
// - 2026-10-19 v0.2.0: Removed user and localization metadata, errors.As based lookups

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"
)

// MaxStackFrames limits the number of stack frames captured
const MaxStackFrames = 16

// Error is a structured error. Builders mutate the receiver and return it so
// calls can be chained right after New or Wrap.
type Error struct {
	message   string
	cause     error
	code      Code
	severity  Severity
	timestamp time.Time
	details   map[string]interface{}
	operation string
	requestID string
	stack     []StackFrame
}

// StackFrame represents a single frame in the stack trace
type StackFrame struct {
	Function string `json:"function"`
	File     string `json:"file"`
	Line     int    `json:"line"`
}

// build skips runtime.Callers, captureStackTrace, build and the exported
// constructor so the first frame is the constructor's caller.
func build(message string, cause error) *Error {
	return &Error{
		message:   message,
		cause:     cause,
		code:      CodeUnknown,
		severity:  SeverityMedium,
		timestamp: time.Now(),
		details:   make(map[string]interface{}),
		stack:     captureStackTrace(4),
	}
}

// New creates an error with CodeUnknown and medium severity
func New(message string) *Error {
	return build(message, nil)
}

// Newf is New with a formatted message
func Newf(format string, args ...interface{}) *Error {
	return build(fmt.Sprintf(format, args...), nil)
}

// Wrap adds context to err. When err is or wraps an *Error its code,
// severity, request ID and details carry over. Wrap(nil, ...) is nil.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}
	wrapped := build(message, err)
	if inner, ok := lookup(err); ok {
		wrapped.code = inner.code
		wrapped.severity = inner.severity
		wrapped.requestID = inner.requestID
		for k, v := range inner.details {
			wrapped.details[k] = v
		}
	}
	return wrapped
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.message
	}
	return e.message + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error { return e.cause }

// WithCode sets the code. A severity still at its default is derived from
// the code.
func (e *Error) WithCode(code Code) *Error {
	e.code = code
	if e.severity == SeverityMedium {
		e.severity = GetSeverityFromCode(code)
	}
	return e
}

func (e *Error) WithSeverity(severity Severity) *Error {
	e.severity = severity
	return e
}

func (e *Error) WithDetail(key string, value interface{}) *Error {
	e.details[key] = value
	return e
}

func (e *Error) WithDetails(details map[string]interface{}) *Error {
	for k, v := range details {
		e.details[k] = v
	}
	return e
}

// WithOperation names the failing operation, conventionally "pkg.Func"
func (e *Error) WithOperation(operation string) *Error {
	e.operation = operation
	return e
}

func (e *Error) WithRequestID(requestID string) *Error {
	e.requestID = requestID
	return e
}

func (e *Error) Code() Code              { return e.code }
func (e *Error) Severity() Severity      { return e.severity }
func (e *Error) Timestamp() time.Time    { return e.timestamp }
func (e *Error) Operation() string       { return e.operation }
func (e *Error) RequestID() string       { return e.requestID }
func (e *Error) StackTrace() []StackFrame { return append([]StackFrame(nil), e.stack...) }

// Details returns a copy of the details map
func (e *Error) Details() map[string]interface{} {
	out := make(map[string]interface{}, len(e.details))
	for k, v := range e.details {
		out[k] = v
	}
	return out
}

// RootCause follows Unwrap to the innermost error
func (e *Error) RootCause() error {
	var current error = e
	for next := errors.Unwrap(current); next != nil; next = errors.Unwrap(current) {
		current = next
	}
	return current
}

// String renders a multi-line report with details sorted by key
func (e *Error) String() string {
	var b strings.Builder
	line := func(label, value string) {
		if value == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(label + ": " + value)
	}

	line("Error", e.message)
	line("Code", string(e.code))
	line("Severity", e.severity.String())
	line("Timestamp", e.timestamp.Format(time.RFC3339))
	line("Operation", e.operation)
	line("RequestID", e.requestID)
	if len(e.details) > 0 {
		keys := make([]string, 0, len(e.details))
		for k := range e.details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = fmt.Sprintf("%s=%v", k, e.details[k])
		}
		line("Details", "{"+strings.Join(pairs, ", ")+"}")
	}
	if e.cause != nil {
		line("Cause", e.cause.Error())
	}
	return b.String()
}

type errorJSON struct {
	Message    string                 `json:"message"`
	Code       Code                   `json:"code"`
	Severity   string                 `json:"severity"`
	Timestamp  string                 `json:"timestamp"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Operation  string                 `json:"operation,omitempty"`
	RequestID  string                 `json:"request_id,omitempty"`
	Cause      string                 `json:"cause,omitempty"`
	StackTrace []StackFrame           `json:"stack_trace,omitempty"`
}

// MarshalJSON implements json.Marshaler for structured logging
func (e *Error) MarshalJSON() ([]byte, error) {
	out := errorJSON{
		Message:    e.message,
		Code:       e.code,
		Severity:   e.severity.String(),
		Timestamp:  e.timestamp.Format(time.RFC3339),
		Details:    e.details,
		Operation:  e.operation,
		RequestID:  e.requestID,
		StackTrace: e.stack,
	}
	if e.cause != nil {
		out.Cause = e.cause.Error()
	}
	return json.Marshal(out)
}

func captureStackTrace(skip int) []StackFrame {
	pcs := make([]uintptr, MaxStackFrames)
	n := runtime.Callers(skip, pcs)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	stack := make([]StackFrame, 0, n)
	for {
		frame, more := frames.Next()
		stack = append(stack, StackFrame{Function: frame.Function, File: frame.File, Line: frame.Line})
		if !more {
			return stack
		}
	}
}

func lookup(err error) (*Error, bool) {
	var target *Error
	ok := errors.As(err, &target)
	return target, ok
}

// HasCode reports whether the first *Error in err's chain carries code
func HasCode(err error, code Code) bool {
	e, ok := lookup(err)
	return ok && e.code == code
}

// GetCode returns the code of the first *Error in err's chain, or CodeUnknown
func GetCode(err error) Code {
	if e, ok := lookup(err); ok {
		return e.code
	}
	return CodeUnknown
}

// GetSeverity returns the severity of the first *Error in err's chain, or
// SeverityMedium
func GetSeverity(err error) Severity {
	if e, ok := lookup(err); ok {
		return e.severity
	}
	return SeverityMedium
}
