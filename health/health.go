// Package health provides the startup checks behind `youtube-mcp health`.
// Each check returns a Status; Combine folds several into one verdict.
package health

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/zero-day-ai/youtube-mcp/schema"
)

// Status values.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// DialTimeout bounds Endpoint when ctx carries no deadline.
const DialTimeout = 5 * time.Second

// Status is the outcome of one check.
type Status struct {
	Name    string         `json:"name,omitempty"`
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// IsHealthy reports whether the check passed.
func (s Status) IsHealthy() bool { return s.Status == StatusHealthy }

// IsDegraded reports whether the check passed with reduced functionality.
func (s Status) IsDegraded() bool { return s.Status == StatusDegraded }

// IsUnhealthy reports whether the check failed.
func (s Status) IsUnhealthy() bool { return s.Status == StatusUnhealthy }

func healthy(name, msg string) Status {
	return Status{Name: name, Status: StatusHealthy, Message: msg}
}

func degraded(name, msg string, details map[string]any) Status {
	return Status{Name: name, Status: StatusDegraded, Message: msg, Details: details}
}

func unhealthy(name, msg string, details map[string]any) Status {
	return Status{Name: name, Status: StatusUnhealthy, Message: msg, Details: details}
}

// APIKey reports whether an upstream key is configured. A missing key leaves
// the server usable for listing and validation, so it only degrades.
func APIKey(key string) Status {
	if key == "" {
		return degraded("api_key", "no YouTube API key configured; upstream tools will fail", nil)
	}
	return healthy("api_key", "YouTube API key configured")
}

// Endpoint verifies TCP connectivity to the host of rawURL.
func Endpoint(ctx context.Context, rawURL string) Status {
	const name = "endpoint"

	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return unhealthy(name, fmt.Sprintf("invalid endpoint %q", rawURL), nil)
	}

	port := u.Port()
	if port == "" {
		port = "443"
		if u.Scheme == "http" {
			port = "80"
		}
	}
	address := net.JoinHostPort(u.Hostname(), port)

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DialTimeout)
		defer cancel()
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return unhealthy(name, fmt.Sprintf("failed to connect to %s", address), map[string]any{
			"address": address,
			"error":   err.Error(),
		})
	}
	conn.Close()

	return healthy(name, fmt.Sprintf("connected to %s", address))
}

// Schemas verifies that every named validation schema loads and parses.
func Schemas(src schema.Source, names ...string) Status {
	const name = "schemas"

	loader := schema.NewLoader(src)
	var failed []string
	details := map[string]any{}
	for _, n := range names {
		if _, _, err := loader.Load(n); err != nil {
			failed = append(failed, n)
			details[n] = err.Error()
		}
	}
	if len(failed) > 0 {
		return unhealthy(name, fmt.Sprintf("%d schema(s) failed to load: %v", len(failed), failed), details)
	}
	return healthy(name, fmt.Sprintf("%d schema(s) loaded", len(names)))
}

// Catalog reports whether the registry loaded any tools.
func Catalog(loaded, expected int) Status {
	const name = "catalog"

	details := map[string]any{"loaded": loaded, "expected": expected}
	switch {
	case loaded == 0:
		return unhealthy(name, "no tools loaded", details)
	case loaded < expected:
		return degraded(name, fmt.Sprintf("%d of %d tools loaded", loaded, expected), details)
	default:
		return healthy(name, fmt.Sprintf("%d tools loaded", loaded))
	}
}

// Combine aggregates multiple checks into a single status.
// The result follows this priority:
//   - If any check is unhealthy, the result is unhealthy
//   - If any check is degraded (and none unhealthy), the result is degraded
//   - If all checks are healthy, the result is healthy
func Combine(checks ...Status) Status {
	if len(checks) == 0 {
		return healthy("overall", "no checks provided")
	}

	var failedChecks, degradedChecks []string
	for _, check := range checks {
		label := check.Name
		if label == "" {
			label = check.Message
		}
		switch check.Status {
		case StatusUnhealthy:
			failedChecks = append(failedChecks, label)
		case StatusDegraded:
			degradedChecks = append(degradedChecks, label)
		}
	}

	details := map[string]any{
		"total":     len(checks),
		"unhealthy": len(failedChecks),
		"degraded":  len(degradedChecks),
	}
	if len(failedChecks) > 0 {
		details["failed_checks"] = failedChecks
		return unhealthy("overall", fmt.Sprintf("%d check(s) failed", len(failedChecks)), details)
	}
	if len(degradedChecks) > 0 {
		details["degraded_checks"] = degradedChecks
		return degraded("overall", fmt.Sprintf("%d check(s) degraded", len(degradedChecks)), details)
	}
	return healthy("overall", fmt.Sprintf("all %d check(s) passed", len(checks)))
}
