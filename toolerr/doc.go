// Package toolerr is the single place where failures become user-facing
// messages.
//
// # Structured errors
//
// Error carries the tool, operation, a standard code (ErrCodeNotFound,
// ErrCodeQuotaExceeded, ...), a Kind in the failure taxonomy and an
// ErrorClass that hints whether retrying makes sense:
//
//	err := toolerr.New("get_video_details", "videos.list", toolerr.ErrCodeNotFound,
//	    "video not found").
//	    WithKind(toolerr.KindExecution).
//	    WithDetails(map[string]any{"videoId": id})
//
// Classify maps arbitrary errors, including *googleapi.Error values from the
// YouTube Data API, to a code and class.
//
// # Normalization
//
// Catch turns any recovered value into a Caught (NativeError, Text or
// Unknown) and Message formats it. Every handler goes through this pair, so a
// quota error reads the same whether it surfaced from a tool result, an
// internal helper or a startup check.
//
// # Handlers
//
// Four call shapes cover the four places failures are caught:
//
//   - ValidationError: arguments rejected before any upstream call
//   - ToolError: a tool returned an error or panicked
//   - UtilityError: an internal helper must propagate a failure upward
//   - SystemError: startup or subsystem failure, optionally fatal
//
// The package-level functions use a default Handler; construct one with
// NewHandler to inject a logger or replace the exit function in tests.
package toolerr
