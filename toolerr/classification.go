package toolerr

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/zero-day-ai/youtube-mcp/youtube"
	"google.golang.org/api/googleapi"
)

// ErrorClass categorizes errors by their nature, so that callers can decide
// whether a retry makes sense.
type ErrorClass string

const (
	// ErrorClassInfrastructure indicates environment or setup issues
	// Examples: API key missing, credentials rejected
	ErrorClassInfrastructure ErrorClass = "infrastructure"

	// ErrorClassSemantic indicates input or configuration issues
	// Examples: malformed video ID, parse errors, bad parameters
	ErrorClassSemantic ErrorClass = "semantic"

	// ErrorClassTransient indicates temporary failures that may resolve
	// Examples: network timeouts, quota resets, upstream 5xx
	ErrorClassTransient ErrorClass = "transient"

	// ErrorClassPermanent indicates non-recoverable failures
	// Examples: video deleted, unknown tool
	ErrorClassPermanent ErrorClass = "permanent"
)

// DefaultClassForCode returns the default error class for a given error code.
func DefaultClassForCode(code string) ErrorClass {
	switch code {
	case ErrCodeNotConfigured, ErrCodePermissionDenied, ErrCodeLoadFailed, ErrCodeSchema:
		return ErrorClassInfrastructure
	case ErrCodeInvalidInput, ErrCodeParseError:
		return ErrorClassSemantic
	case ErrCodeNotFound:
		return ErrorClassPermanent
	case ErrCodeTimeout, ErrCodeCancelled, ErrCodeNetworkError, ErrCodeQuotaExceeded, ErrCodeUpstream:
		return ErrorClassTransient
	default:
		// EXECUTION_FAILED and unknown codes are context-dependent; assume transient
		return ErrorClassTransient
	}
}

// quotaReasons are the googleapi error reasons that mean the quota is spent.
var quotaReasons = map[string]bool{
	"quotaExceeded":          true,
	"dailyLimitExceeded":     true,
	"rateLimitExceeded":      true,
	"userRateLimitExceeded":  true,
	"servingLimitExceeded":   true,
	"quotaExceededForMethod": true,
}

// Classify maps an error to an error code and class. Structured errors keep
// their own code; upstream googleapi errors are mapped by reason and HTTP status.
func Classify(err error) (string, ErrorClass) {
	if err == nil {
		return "", ""
	}

	var te *Error
	if errors.As(err, &te) && te.Code != "" {
		class := te.Class
		if class == "" {
			class = DefaultClassForCode(te.Code)
		}
		return te.Code, class
	}

	var code string
	var gerr *googleapi.Error
	var nerr net.Error
	switch {
	case errors.Is(err, ErrToolNotFound):
		code = ErrCodeNotFound
	case errors.Is(err, youtube.ErrNotConfigured):
		code = ErrCodeNotConfigured
	case errors.Is(err, ErrInvalidInput):
		code = ErrCodeInvalidInput
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, ErrTimeout):
		code = ErrCodeTimeout
	case errors.Is(err, context.Canceled):
		code = ErrCodeCancelled
	case errors.As(err, &gerr):
		code = upstreamCode(gerr)
	case errors.As(err, &nerr):
		code = ErrCodeNetworkError
	default:
		code = ErrCodeExecutionFailed
	}
	return code, DefaultClassForCode(code)
}

func upstreamCode(gerr *googleapi.Error) string {
	for _, item := range gerr.Errors {
		if quotaReasons[item.Reason] {
			return ErrCodeQuotaExceeded
		}
	}
	switch {
	case gerr.Code == http.StatusNotFound:
		return ErrCodeNotFound
	case gerr.Code == http.StatusBadRequest:
		return ErrCodeInvalidInput
	case gerr.Code == http.StatusUnauthorized, gerr.Code == http.StatusForbidden:
		return ErrCodePermissionDenied
	case gerr.Code == http.StatusTooManyRequests:
		return ErrCodeQuotaExceeded
	default:
		return ErrCodeUpstream
	}
}
