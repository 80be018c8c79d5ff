package tool

import (
	"errors"
	"time"
)

// Metadata accompanies a Result with cost and timing information.
type Metadata struct {
	// QuotaUsed is the upstream quota attributed to the call. Nil when unknown.
	QuotaUsed *int `json:"quotaUsed,omitempty"`

	// ResponseTime is the elapsed time in milliseconds.
	ResponseTime int64 `json:"responseTime"`

	// Source labels where the result came from, usually the tool name.
	Source string `json:"source,omitempty"`

	// RequestID correlates the result with log lines and spans.
	RequestID string `json:"requestId,omitempty"`
}

// Since returns the milliseconds elapsed since start, for ResponseTime.
func Since(start time.Time) int64 {
	if start.IsZero() {
		return 0
	}
	return time.Since(start).Milliseconds()
}

// Result is the uniform outcome of every tool execution. Exactly one of Data
// (on success) or Error (on failure) is set.
type Result struct {
	Success  bool      `json:"success"`
	Data     any       `json:"data,omitempty"`
	Error    string    `json:"error,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// Ok returns a successful result. A nil data value is replaced by an empty
// object so that a success always carries data.
func Ok(data any, meta *Metadata) Result {
	if data == nil {
		data = map[string]any{}
	}
	return Result{Success: true, Data: data, Metadata: meta}
}

// Fail returns a failed result with the given message.
func Fail(message string, meta *Metadata) Result {
	if message == "" {
		message = "tool execution failed"
	}
	return Result{Success: false, Error: message, Metadata: meta}
}

// Validate checks that exactly one of the success or failure shapes holds.
func (r Result) Validate() error {
	switch {
	case r.Success && r.Data == nil:
		return errors.New("successful result has no data")
	case r.Success && r.Error != "":
		return errors.New("successful result carries an error")
	case !r.Success && r.Error == "":
		return errors.New("failed result has no error message")
	case !r.Success && r.Data != nil:
		return errors.New("failed result carries data")
	}
	return nil
}
