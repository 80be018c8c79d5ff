// Package response checks the structure of what the server produces and
// consumes: the MCP envelope sent to clients, the internal tool result, raw
// YouTube Data API payloads and a schema-independent integrity walk over the
// envelope.
//
// Every mode returns a ValidationResult and none of them panics or returns an
// error: nil, non-encodable and self-referencing input are reported as
// validation errors, and a schema that cannot be loaded is reported as a
// single error on the "schema" field.
package response

import (
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zero-day-ai/youtube-mcp/schema"
)

// Names of the bundled schemas.
const (
	SchemaMCPResponse        = "mcp-response"
	SchemaToolResponse       = "tool-response"
	SchemaYouTubeAPIResponse = "youtube-api-response"
)

//go:embed schemas/*.json
var bundled embed.FS

// DefaultSource returns the schemas bundled with the binary.
func DefaultSource() schema.Source {
	return schema.FSSource{FS: bundled, Dir: "schemas"}
}

// FieldError describes one structural mismatch.
type FieldError = schema.FieldError

// Performance records how long a validation took, in milliseconds.
type Performance struct {
	ValidationTime float64 `json:"validationTime"`

	// SchemaLoadTime is set only when the schema was read from its source
	// during this call rather than served from the cache.
	SchemaLoadTime *float64 `json:"schemaLoadTime,omitempty"`
}

// ValidationResult is the outcome of one validation.
type ValidationResult struct {
	Valid       bool         `json:"valid"`
	Errors      []FieldError `json:"errors"`
	Performance Performance  `json:"performance"`
	Summary     string       `json:"summary"`
}

// Validator validates values against named schemas and identifier rules.
// It is safe for concurrent use, except that ClearCache must not run while
// validations are in flight.
type Validator struct {
	loader *schema.Loader
	rules  []IDRule
}

// Option configures a Validator.
type Option func(*Validator)

// WithSource replaces the bundled schemas.
func WithSource(src schema.Source) Option {
	return func(v *Validator) {
		v.loader = schema.NewLoader(src)
	}
}

// WithRules adds identifier rules on top of the defaults.
func WithRules(rules ...IDRule) Option {
	return func(v *Validator) {
		v.rules = append(v.rules, rules...)
	}
}

// New creates a validator with the bundled schemas and the default YouTube
// identifier rules.
func New(opts ...Option) *Validator {
	v := &Validator{
		loader: schema.NewLoader(DefaultSource()),
		rules:  DefaultRules(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ClearCache drops every cached schema.
func (v *Validator) ClearCache() {
	v.loader.Clear()
}

// check is the shared path of the schema-backed modes. extra runs after the
// schema check on the normalized document.
func (v *Validator) check(name string, value any, extra func(doc any) []FieldError) ValidationResult {
	start := time.Now()
	var perf Performance

	s, fresh, err := v.loader.Load(name)
	if fresh {
		perf.SchemaLoadTime = ptr(millis(time.Since(start)))
	}
	if err != nil {
		return finish(name, start, perf, []FieldError{{
			Field:   "schema",
			Message: fmt.Sprintf("failed to load schema %s: %v", name, err),
		}})
	}

	doc, err := normalize(value)
	if err != nil {
		return finish(name, start, perf, []FieldError{{
			Field:   "root",
			Message: err.Error(),
		}})
	}

	errs := []FieldError(s.Check(doc))
	if extra != nil {
		errs = append(errs, extra(doc)...)
	}
	return finish(name, start, perf, errs)
}

func finish(mode string, start time.Time, perf Performance, errs []FieldError) ValidationResult {
	if errs == nil {
		errs = []FieldError{}
	}
	perf.ValidationTime = millis(time.Since(start))

	r := ValidationResult{
		Valid:       len(errs) == 0,
		Errors:      errs,
		Performance: perf,
	}
	if r.Valid {
		r.Summary = fmt.Sprintf("%s validation passed", mode)
	} else {
		r.Summary = fmt.Sprintf("%s validation failed with %d error(s)", mode, len(errs))
	}
	return r
}

// normalize converts value to its JSON data model (maps, slices, float64,
// string, bool, nil). Raw JSON is decoded directly. Cycles, channels, funcs
// and NaN are rejected by the encoder.
func normalize(value any) (doc any, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("value cannot be encoded as JSON: %v", r)
		}
	}()

	var data []byte
	switch raw := value.(type) {
	case json.RawMessage:
		data = raw
	default:
		data, err = json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("value cannot be encoded as JSON: %v", err)
		}
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("value is not valid JSON: %v", err)
	}
	return doc, nil
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func ptr[T any](v T) *T {
	return &v
}

var defaultValidator = New()

// ValidateMCPResponse validates v against the MCP envelope schema using the default validator.
func ValidateMCPResponse(v any) ValidationResult {
	return defaultValidator.ValidateMCPResponse(v)
}

// ValidateToolResponse validates a tool result using the default validator.
func ValidateToolResponse(v any, toolName string) ValidationResult {
	return defaultValidator.ValidateToolResponse(v, toolName)
}

// ValidateYouTubeAPIResponse validates a raw upstream payload using the default validator.
func ValidateYouTubeAPIResponse(v any) ValidationResult {
	return defaultValidator.ValidateYouTubeAPIResponse(v)
}

// ValidateResponseIntegrity runs the integrity walk using the default validator.
func ValidateResponseIntegrity(v any) ValidationResult {
	return defaultValidator.ValidateResponseIntegrity(v)
}

// ClearCache clears the default validator's schema cache.
func ClearCache() {
	defaultValidator.ClearCache()
}
