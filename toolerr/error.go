package toolerr

import (
	"errors"
	"fmt"
	"strings"
)

// Standard error codes used across tools for consistent error reporting.
const (
	// ErrCodeNotFound indicates a tool or upstream resource does not exist
	ErrCodeNotFound = "NOT_FOUND"

	// ErrCodeInvalidInput indicates invalid input parameters
	ErrCodeInvalidInput = "INVALID_INPUT"

	// ErrCodeExecutionFailed indicates the tool's own logic failed
	ErrCodeExecutionFailed = "EXECUTION_FAILED"

	// ErrCodeTimeout indicates an operation timed out
	ErrCodeTimeout = "TIMEOUT"

	// ErrCodeCancelled indicates the caller cancelled the operation
	ErrCodeCancelled = "CANCELLED"

	// ErrCodeParseError indicates failure to parse output or data
	ErrCodeParseError = "PARSE_ERROR"

	// ErrCodeNetworkError indicates a network-related error
	ErrCodeNetworkError = "NETWORK_ERROR"

	// ErrCodeQuotaExceeded indicates the upstream API quota is exhausted
	ErrCodeQuotaExceeded = "QUOTA_EXCEEDED"

	// ErrCodePermissionDenied indicates the upstream rejected the credentials
	ErrCodePermissionDenied = "PERMISSION_DENIED"

	// ErrCodeUpstream indicates any other upstream API failure
	ErrCodeUpstream = "UPSTREAM_ERROR"

	// ErrCodeNotConfigured indicates a required setting such as the API key is missing
	ErrCodeNotConfigured = "NOT_CONFIGURED"

	// ErrCodeLoadFailed indicates tool discovery or registration failed
	ErrCodeLoadFailed = "LOAD_FAILED"

	// ErrCodeSchema indicates a named validation schema could not be loaded
	ErrCodeSchema = "SCHEMA_ERROR"
)

// Kind is the failure origin in the error taxonomy.
type Kind string

const (
	// KindNotFound: the requested tool name has no registered entry.
	KindNotFound Kind = "not_found"

	// KindValidation: caller arguments failed shape checks.
	KindValidation Kind = "validation"

	// KindExecution: the tool's own logic, including upstream calls, failed.
	KindExecution Kind = "execution"

	// KindLoad: a discovered tool was rejected or discovery itself failed.
	KindLoad Kind = "load"

	// KindSchema: a named validation schema is missing or unparseable.
	KindSchema Kind = "schema"
)

// Error is a structured error type for tool operations.
// It provides context about which tool and operation failed,
// includes a standard error code, and can wrap underlying errors.
type Error struct {
	// Tool is the name of the tool that generated the error, if any
	Tool string `json:"tool,omitempty"`

	// Operation is the specific operation that failed
	Operation string `json:"operation,omitempty"`

	// Code is a standard error code constant
	Code string `json:"code"`

	// Kind is the failure origin
	Kind Kind `json:"kind,omitempty"`

	// Message is a human-readable error message
	Message string `json:"message"`

	// Details contains additional context as key-value pairs
	Details map[string]any `json:"details,omitempty"`

	// Cause is the underlying error that caused this error
	Cause error `json:"-"`

	// Class categorizes the error by its nature for semantic understanding
	Class ErrorClass `json:"class,omitempty"`
}

// New creates a new structured tool error.
//
// Example:
//
//	err := toolerr.New("get_video_details", "videos.list", toolerr.ErrCodeNotFound, "video not found")
func New(tool, operation, code, message string) *Error {
	return &Error{
		Tool:      tool,
		Operation: operation,
		Code:      code,
		Message:   message,
		Class:     DefaultClassForCode(code),
	}
}

// WithCause adds an underlying error to this error.
// This method returns the same error instance for method chaining.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// WithDetails adds additional context to this error.
// This method returns the same error instance for method chaining.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// WithClass overrides the error classification.
func (e *Error) WithClass(class ErrorClass) *Error {
	e.Class = class
	return e
}

// WithKind sets the failure origin.
func (e *Error) WithKind(kind Kind) *Error {
	e.Kind = kind
	return e
}

// Error implements the error interface.
// It formats the error as: "tool [operation/code]: message: cause".
// Errors without a tool omit the bracketed header.
//
// Examples:
//   - "get_video_details [videos.list/NOT_FOUND]: video not found"
//   - "decode arguments failed (get_video_details): expected string, got number"
func (e *Error) Error() string {
	var parts []string

	if e.Tool != "" {
		parts = append(parts, fmt.Sprintf("%s [%s/%s]", e.Tool, e.Operation, e.Code))
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	if len(parts) == 0 {
		return e.Code
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying cause error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements error equality checking for errors.Is().
// Two Error values are considered equal if they have the same Tool, Operation, and Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Tool == t.Tool && e.Operation == t.Operation && e.Code == t.Code
}

// Sentinel errors for common scenarios

var (
	// ErrToolNotFound is returned when no tool is registered under a name
	ErrToolNotFound = errors.New("tool not found")

	// ErrTimeout is returned when an operation times out
	ErrTimeout = errors.New("operation timed out")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// NotFound returns an error wrapping ErrToolNotFound, formatted as
// "tool not found: <name>".
func NotFound(name string) error {
	return fmt.Errorf("%w: %s", ErrToolNotFound, name)
}

// normalized carries an already-normalized message while keeping the
// original error reachable through errors.Is and errors.As.
type normalized struct {
	msg string
	err error
}

func (n *normalized) Error() string { return n.msg }
func (n *normalized) Unwrap() error { return n.err }
