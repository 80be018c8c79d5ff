package schema

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// FromType derives an input schema from a tool argument struct, so the
// advertised schema and the decoded arguments cannot drift.
//
// Field names follow encoding/json: the `json` tag name is used, `json:"-"`
// skips the field and `omitempty` makes it optional. Embedded structs are
// flattened the way encoding/json flattens them. Constraint tags:
//
//	description:"..."   property description
//	enum:"a,b,c"        allowed string values
//	pattern:"^...$"     regular expression for strings
//	minimum:"1"         lower numeric bound
//	maximum:"50"        upper numeric bound
//	minLength:"1"       minimum string length
func FromType(v any) JSON {
	if v == nil {
		return JSON{}
	}
	return reflectSchema(reflect.TypeOf(v))
}

var (
	timeType = reflect.TypeOf(time.Time{})
	rawType  = reflect.TypeOf(json.RawMessage(nil))
)

func reflectSchema(t reflect.Type) JSON {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch {
	case t == timeType:
		return JSON{Type: "string", Format: "date-time"}
	case t == rawType:
		return JSON{}
	}

	switch t.Kind() {
	case reflect.Struct:
		s := JSON{Type: "object", Properties: map[string]JSON{}}
		collectFields(t, &s)
		return s
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			// encoding/json writes byte slices as base64 text
			return JSON{Type: "string"}
		}
		items := reflectSchema(t.Elem())
		return JSON{Type: "array", Items: &items}
	case reflect.Map:
		return JSON{Type: "object"}
	case reflect.String:
		return JSON{Type: "string"}
	case reflect.Bool:
		return JSON{Type: "boolean"}
	case reflect.Float32, reflect.Float64:
		return JSON{Type: "number"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return JSON{Type: "integer"}
	}
	return JSON{}
}

// collectFields adds the properties of struct t to s, descending into
// untagged embedded structs.
func collectFields(t reflect.Type, s *JSON) {
	for i := range t.NumField() {
		f := t.Field(i)

		name, optional, ok := fieldName(f)
		if !ok {
			continue
		}

		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if f.Anonymous && f.Tag.Get("json") == "" && ft.Kind() == reflect.Struct {
			collectFields(ft, s)
			continue
		}
		if !f.IsExported() {
			continue
		}

		prop := reflectSchema(f.Type)
		applyTags(&prop, f.Tag)
		s.Properties[name] = prop
		if !optional {
			s.Required = append(s.Required, name)
		}
	}
}

// fieldName resolves the JSON property name of f. ok is false for skipped fields.
func fieldName(f reflect.StructField) (name string, optional, ok bool) {
	tag, hasTag := f.Tag.Lookup("json")
	if tag == "-" {
		return "", false, false
	}
	name, opts, _ := strings.Cut(tag, ",")
	if !hasTag || name == "" {
		name = f.Name
	}
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == "omitempty" || opt == "omitzero" {
			optional = true
		}
	}
	return name, optional, true
}

// applyTags copies constraint tags onto a field schema. Malformed numeric tags
// are ignored rather than guessed at.
func applyTags(s *JSON, tag reflect.StructTag) {
	if desc := tag.Get("description"); desc != "" {
		s.Description = desc
	}
	if enum := tag.Get("enum"); enum != "" {
		for _, v := range strings.Split(enum, ",") {
			s.Enum = append(s.Enum, strings.TrimSpace(v))
		}
	}
	if pattern := tag.Get("pattern"); pattern != "" {
		s.Pattern = pattern
	}
	if v, err := strconv.ParseFloat(tag.Get("minimum"), 64); err == nil {
		s.Minimum = &v
	}
	if v, err := strconv.ParseFloat(tag.Get("maximum"), 64); err == nil {
		s.Maximum = &v
	}
	if v, err := strconv.Atoi(tag.Get("minLength")); err == nil {
		s.MinLength = &v
	}
}
