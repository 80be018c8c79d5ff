package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// MaxDepth bounds how deep Check descends into a value. Self-referencing maps
// and slices stop here instead of recursing forever.
const MaxDepth = 64

// JSON represents a JSON Schema definition.
// It covers the subset the server relies on: primitive and container types,
// required fields, enums, string and numeric constraints, closed objects and
// local $ref lookups into Definitions.
type JSON struct {
	Type                 string          `json:"type,omitempty"`
	Description          string          `json:"description,omitempty"`
	Properties           map[string]JSON `json:"properties,omitempty"`
	Required             []string        `json:"required,omitempty"`
	AdditionalProperties *bool           `json:"additionalProperties,omitempty"`
	Items                *JSON           `json:"items,omitempty"`
	Enum                 []any           `json:"enum,omitempty"`
	Default              any             `json:"default,omitempty"`
	Minimum              *float64        `json:"minimum,omitempty"`
	Maximum              *float64        `json:"maximum,omitempty"`
	MinLength            *int            `json:"minLength,omitempty"`
	MaxLength            *int            `json:"maxLength,omitempty"`
	Pattern              string          `json:"pattern,omitempty"`
	Format               string          `json:"format,omitempty"`
	Ref                  string          `json:"$ref,omitempty"`
	Definitions          map[string]JSON `json:"definitions,omitempty"`
}

// FieldError describes a single mismatch between a value and a schema.
type FieldError struct {
	// Field is the dotted path of the offending value ("content[0].type").
	// The document itself is reported as "root".
	Field string `json:"field"`

	// Message is a human-readable description of the mismatch.
	Message string `json:"message"`

	// Value is the offending value for scalars, or a type label for containers.
	Value any `json:"value,omitempty"`

	// ExpectedType is the schema type that was expected, when one applies.
	ExpectedType string `json:"expectedType,omitempty"`
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Errors is the list of every mismatch found in one Check pass.
type Errors []FieldError

// Error joins all field errors into one message.
func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Error()
	}
	return strings.Join(parts, "; ")
}

// Any creates a JSON schema that accepts any type.
// This is useful for dynamic or unstructured data.
func Any() JSON {
	return JSON{}
}

// String creates a JSON schema for a string type.
func String() JSON {
	return JSON{Type: "string"}
}

// StringWithDesc creates a JSON schema for a string type with a description.
func StringWithDesc(desc string) JSON {
	return JSON{
		Type:        "string",
		Description: desc,
	}
}

// Int creates a JSON schema for an integer type.
func Int() JSON {
	return JSON{Type: "integer"}
}

// Number creates a JSON schema for a number type.
func Number() JSON {
	return JSON{Type: "number"}
}

// Bool creates a JSON schema for a boolean type.
func Bool() JSON {
	return JSON{Type: "boolean"}
}

// Array creates a JSON schema for an array type with the specified item schema.
func Array(items JSON) JSON {
	return JSON{
		Type:  "array",
		Items: &items,
	}
}

// Object creates a JSON schema for an object type with the specified properties and required fields.
func Object(properties map[string]JSON, required ...string) JSON {
	return JSON{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

// Closed returns a copy of an object schema that rejects undeclared properties.
func (s JSON) Closed() JSON {
	closed := false
	s.AdditionalProperties = &closed
	return s
}

// Enum creates a JSON schema with enumerated values.
func Enum(values ...any) JSON {
	return JSON{Enum: values}
}

// IsZero reports whether the schema constrains nothing at all.
func (s JSON) IsZero() bool {
	return s.Type == "" && s.Ref == "" && len(s.Enum) == 0 && len(s.Properties) == 0 && s.Items == nil
}

// CompilePatterns compiles every pattern reachable from the schema and
// reports the ones that do not compile, keyed by their path.
func (s JSON) CompilePatterns() error {
	var errs []error
	s.walkPatterns("", 0, func(path, pattern string) {
		if _, err := compilePattern(pattern); err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid pattern: %w", pathName(path), err))
		}
	})
	return errors.Join(errs...)
}

func (s JSON) walkPatterns(path string, depth int, fn func(path, pattern string)) {
	if depth > MaxDepth {
		return
	}
	if s.Pattern != "" {
		fn(path, s.Pattern)
	}
	for _, name := range sortedKeys(s.Properties) {
		s.Properties[name].walkPatterns(joinPath(path, name), depth+1, fn)
	}
	if s.Items != nil {
		s.Items.walkPatterns(path+"[]", depth+1, fn)
	}
	for _, name := range sortedKeys(s.Definitions) {
		s.Definitions[name].walkPatterns(joinPath("#/definitions", name), depth+1, fn)
	}
}

func sortedKeys(m map[string]JSON) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate validates the given value against this JSON schema.
// It returns nil when the value conforms, otherwise an Errors value listing
// every mismatch.
func (s JSON) Validate(value any) error {
	if errs := s.Check(value); len(errs) > 0 {
		return errs
	}
	return nil
}

// Check walks value against the schema and returns every mismatch found.
// It never panics: unsupported refs, bad patterns and runaway nesting are
// reported as field errors.
func (s JSON) Check(value any) Errors {
	c := &checker{defs: s.Definitions, refs: make(map[string]bool)}
	c.check(s, value, "", 0)
	return c.errs
}

type checker struct {
	defs map[string]JSON
	refs map[string]bool
	errs Errors
}

func (c *checker) fail(path, expected string, value any, format string, args ...any) {
	c.errs = append(c.errs, FieldError{
		Field:        pathName(path),
		Message:      fmt.Sprintf(format, args...),
		Value:        describeValue(value),
		ExpectedType: expected,
	})
}

func (c *checker) check(s JSON, value any, path string, depth int) {
	if depth > MaxDepth {
		c.fail(path, "", nil, "maximum nesting depth %d exceeded (possible circular reference)", MaxDepth)
		return
	}

	if s.Ref != "" {
		c.checkRef(s.Ref, value, path, depth)
		return
	}

	if value == nil {
		if s.Type != "" {
			c.fail(path, s.Type, nil, "expected %s, got null", s.Type)
		}
		return
	}

	if len(s.Enum) > 0 {
		if err := s.validateEnum(value); err != nil {
			c.fail(path, s.Type, value, "%v", err)
			return
		}
	}

	if s.Type != "" {
		if err := s.validateType(value); err != nil {
			c.fail(path, s.Type, value, "%v", err)
			return
		}
	}

	var err error
	switch s.Type {
	case "string":
		err = s.validateString(value)
	case "integer":
		err = s.validateInteger(value)
	case "number":
		err = s.validateNumber(value)
	case "array":
		c.checkArray(s, value, path, depth)
	case "object":
		c.checkObject(s, value, path, depth)
	}
	if err != nil {
		c.fail(path, s.Type, value, "%v", err)
	}
}

// checkRef resolves a local $ref. Only #/definitions/X is supported and a ref
// that is already being expanded on the current path is reported as circular.
func (c *checker) checkRef(ref string, value any, path string, depth int) {
	if !strings.HasPrefix(ref, "#/definitions/") {
		c.fail(path, "", nil, "unsupported $ref format: %s (only #/definitions/X is supported)", ref)
		return
	}
	if c.refs[ref] {
		c.fail(path, "", nil, "circular $ref detected: %s", ref)
		return
	}
	def, ok := c.defs[strings.TrimPrefix(ref, "#/definitions/")]
	if !ok {
		c.fail(path, "", nil, "$ref %s cannot be resolved: definition not found", ref)
		return
	}

	c.refs[ref] = true
	defer delete(c.refs, ref)
	c.check(def, value, path, depth)
}

func (c *checker) checkArray(s JSON, value any, path string, depth int) {
	if s.Items == nil {
		return
	}
	v := reflect.ValueOf(value)
	for i := 0; i < v.Len(); i++ {
		c.check(*s.Items, v.Index(i).Interface(), indexPath(path, i), depth+1)
	}
}

func (c *checker) checkObject(s JSON, value any, path string, depth int) {
	obj, err := asObject(value)
	if err != nil {
		c.fail(path, "object", value, "%v", err)
		return
	}

	for _, req := range s.Required {
		if _, exists := obj[req]; !exists {
			c.fail(joinPath(path, req), "", nil, "required field %s is missing", req)
		}
	}

	// Sorted keys keep error order stable across runs.
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		propSchema, exists := s.Properties[key]
		if !exists {
			if s.AdditionalProperties != nil && !*s.AdditionalProperties {
				c.fail(joinPath(path, key), "", obj[key], "unexpected field %s", key)
			}
			continue
		}
		c.check(propSchema, obj[key], joinPath(path, key), depth+1)
	}
}

// asObject converts value to a map for validation. Maps with string keys are
// used as-is; structs and other maps go through a JSON round trip.
func asObject(value any) (map[string]any, error) {
	if m, ok := value.(map[string]any); ok {
		return m, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal object: %w", err)
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("failed to unmarshal object: %w", err)
	}
	return obj, nil
}

// validateType checks if the value matches the expected type.
func (s JSON) validateType(value any) error {
	v := reflect.ValueOf(value)

	switch s.Type {
	case "string":
		if v.Kind() != reflect.String {
			return fmt.Errorf("expected string, got %s", typeLabel(value))
		}
	case "integer":
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		case reflect.Float32, reflect.Float64:
			f := v.Float()
			if f != float64(int64(f)) {
				return fmt.Errorf("expected integer, got float with decimal: %v", value)
			}
		default:
			return fmt.Errorf("expected integer, got %s", typeLabel(value))
		}
	case "number":
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
		default:
			return fmt.Errorf("expected number, got %s", typeLabel(value))
		}
	case "boolean":
		if v.Kind() != reflect.Bool {
			return fmt.Errorf("expected boolean, got %s", typeLabel(value))
		}
	case "array":
		if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
			return fmt.Errorf("expected array, got %s", typeLabel(value))
		}
	case "object":
		if v.Kind() != reflect.Map && v.Kind() != reflect.Struct {
			return fmt.Errorf("expected object, got %s", typeLabel(value))
		}
	}

	return nil
}

// validateString validates string-specific constraints.
func (s JSON) validateString(value any) error {
	str := reflect.ValueOf(value).String()

	if s.MinLength != nil && len(str) < *s.MinLength {
		return fmt.Errorf("string length %d is less than minimum %d", len(str), *s.MinLength)
	}
	if s.MaxLength != nil && len(str) > *s.MaxLength {
		return fmt.Errorf("string length %d is greater than maximum %d", len(str), *s.MaxLength)
	}

	if s.Pattern != "" {
		re, err := compilePattern(s.Pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern: %w", err)
		}
		if !re.MatchString(str) {
			return fmt.Errorf("string does not match pattern %s", s.Pattern)
		}
	}

	return nil
}

// validateInteger validates integer-specific constraints.
func (s JSON) validateInteger(value any) error {
	num, ok := toFloat64(value)
	if !ok {
		return fmt.Errorf("expected integer, got %s", typeLabel(value))
	}
	return s.validateNumericConstraints(num)
}

// validateNumber validates number-specific constraints.
func (s JSON) validateNumber(value any) error {
	num, ok := toFloat64(value)
	if !ok {
		return fmt.Errorf("expected number, got %s", typeLabel(value))
	}
	return s.validateNumericConstraints(num)
}

// validateNumericConstraints validates minimum and maximum constraints.
func (s JSON) validateNumericConstraints(num float64) error {
	if s.Minimum != nil && num < *s.Minimum {
		return fmt.Errorf("value %v is less than minimum %v", num, *s.Minimum)
	}
	if s.Maximum != nil && num > *s.Maximum {
		return fmt.Errorf("value %v is greater than maximum %v", num, *s.Maximum)
	}
	return nil
}

// validateEnum validates that the value is one of the allowed enum values.
// JSON-decoded numbers arrive as float64, so numeric members compare by value.
func (s JSON) validateEnum(value any) error {
	for _, enumVal := range s.Enum {
		if reflect.DeepEqual(value, enumVal) {
			return nil
		}
		if a, ok := toFloat64(value); ok {
			if b, ok := toFloat64(enumVal); ok && a == b {
				return nil
			}
		}
	}
	return fmt.Errorf("value %v is not one of the allowed values: %v", describeValue(value), s.Enum)
}

func toFloat64(value any) (float64, bool) {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	default:
		return 0, false
	}
}

// typeLabel names the JSON type of a Go value for error messages.
func typeLabel(value any) string {
	if value == nil {
		return "null"
	}
	switch reflect.ValueOf(value).Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}

// describeValue returns scalars unchanged and a type label for containers, so
// that error values stay printable even when the input is self-referencing.
func describeValue(value any) any {
	if value == nil {
		return nil
	}
	switch reflect.ValueOf(value).Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return value
	default:
		return typeLabel(value)
	}
}

var patterns sync.Map // string -> *regexp.Regexp

func compilePattern(pattern string) (*regexp.Regexp, error) {
	if re, ok := patterns.Load(pattern); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	patterns.Store(pattern, re)
	return re, nil
}

func pathName(path string) string {
	if path == "" {
		return "root"
	}
	return path
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

func indexPath(base string, idx int) string {
	return base + "[" + strconv.Itoa(idx) + "]"
}
