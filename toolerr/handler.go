package toolerr

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/zero-day-ai/youtube-mcp/tool"
)

// ErrorContext describes the call a ToolError belongs to.
type ErrorContext struct {
	// QuotaUsed is the quota spent before the failure, if known.
	QuotaUsed *int

	// StartTime is when the call started; ResponseTime is measured from it.
	StartTime time.Time

	// Source labels the failing tool.
	Source string

	// Prefix, when set, is prepended to the message as "<prefix>: ".
	Prefix string

	// RequestID is copied into the result metadata.
	RequestID string
}

// Operation names the internal helper a UtilityError came from.
type Operation struct {
	Name   string
	Detail string
}

// Component names the subsystem a SystemError came from.
type Component struct {
	Name      string
	Operation string
}

// Handler turns caught values into results, errors and log lines. The zero
// value is not usable; construct one with NewHandler.
type Handler struct {
	logger *slog.Logger
	exit   func(code int)
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithLogger sets the logger SystemError writes to. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithExit replaces the function called for critical system errors.
// Defaults to os.Exit.
func WithExit(exit func(code int)) HandlerOption {
	return func(h *Handler) {
		h.exit = exit
	}
}

// NewHandler creates a Handler.
func NewHandler(opts ...HandlerOption) *Handler {
	h := &Handler{exit: os.Exit}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) log() *slog.Logger {
	if h.logger != nil {
		return h.logger
	}
	return slog.Default()
}

// ValidationError reports caller arguments that failed checks. No upstream
// call was made, so the attributed quota is zero.
func (h *Handler) ValidationError(message, source string) tool.Result {
	return tool.Fail(Message(Text(message)), &tool.Metadata{
		QuotaUsed: tool.Cost(0),
		Source:    source,
	})
}

// ToolError converts anything a tool returned or panicked with into a failure result.
func (h *Handler) ToolError(v any, ec ErrorContext) tool.Result {
	msg := Normalize(v)
	if ec.Prefix != "" {
		msg = ec.Prefix + ": " + msg
	}
	return tool.Fail(msg, &tool.Metadata{
		QuotaUsed:    ec.QuotaUsed,
		ResponseTime: tool.Since(ec.StartTime),
		Source:       ec.Source,
		RequestID:    ec.RequestID,
	})
}

// UtilityError wraps a failure inside an internal helper so the caller can
// return it upward. The original error stays reachable through errors.Is/As.
func (h *Handler) UtilityError(v any, op Operation) error {
	msg := op.Name + " failed"
	if op.Detail != "" {
		msg += " (" + op.Detail + ")"
	}

	code := ErrCodeExecutionFailed
	var cause error
	switch c := Catch(v).(type) {
	case NativeError:
		code, _ = Classify(c.Err)
		cause = &normalized{msg: Message(c), err: c.Err}
	default:
		cause = &normalized{msg: Message(c)}
	}

	return &Error{
		Operation: op.Name,
		Code:      code,
		Kind:      KindExecution,
		Message:   msg,
		Cause:     cause,
		Class:     DefaultClassForCode(code),
	}
}

// SystemError logs a startup or subsystem failure. When critical it ends the
// process with exit status 1; it must never be used for per-request failures.
func (h *Handler) SystemError(v any, c Component, critical bool) {
	msg := Normalize(v)
	line := fmt.Sprintf("[%s] %s failed: %s", c.Name, c.Operation, msg)

	h.log().Error(line,
		"component", c.Name,
		"operation", c.Operation,
		"critical", critical,
	)
	if critical {
		h.exit(1)
	}
}

var defaultHandler = NewHandler()

// ValidationError calls ValidationError on the default handler.
func ValidationError(message, source string) tool.Result {
	return defaultHandler.ValidationError(message, source)
}

// ToolError calls ToolError on the default handler.
func ToolError(v any, ec ErrorContext) tool.Result {
	return defaultHandler.ToolError(v, ec)
}

// UtilityError calls UtilityError on the default handler.
func UtilityError(v any, op Operation) error {
	return defaultHandler.UtilityError(v, op)
}

// SystemError calls SystemError on the default handler.
func SystemError(v any, c Component, critical bool) {
	defaultHandler.SystemError(v, c, critical)
}
