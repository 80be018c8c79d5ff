package response

import (
	"fmt"
	"time"
)

const modeIntegrity = "integrity"

// ValidateResponseIntegrity walks an envelope without a schema: success and
// content must exist, content must be an array and every element must be
// exactly {type:"text", text:string}. Each malformed element contributes one
// error.
func (v *Validator) ValidateResponseIntegrity(value any) ValidationResult {
	start := time.Now()

	doc, err := normalize(value)
	if err != nil {
		return finish(modeIntegrity, start, Performance{}, []FieldError{{Field: "root", Message: err.Error()}})
	}

	root, ok := doc.(map[string]any)
	if !ok {
		return finish(modeIntegrity, start, Performance{}, []FieldError{{
			Field:        "root",
			Message:      "response must be an object",
			Value:        describe(doc),
			ExpectedType: "object",
		}})
	}

	// A missing top-level field is its own error, on top of any per-element
	// content errors.
	var errs []FieldError
	for _, field := range []string{"success", "content"} {
		if _, ok := root[field]; !ok {
			errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf("missing required field %s", field)})
		}
	}
	if s, ok := root["success"]; ok {
		if _, isBool := s.(bool); !isBool {
			errs = append(errs, FieldError{Field: "success", Message: "success must be a boolean", Value: describe(s), ExpectedType: "boolean"})
		}
	}

	if c, ok := root["content"]; ok {
		content, isArray := c.([]any)
		if !isArray {
			errs = append(errs, FieldError{Field: "content", Message: "content must be an array", Value: describe(c), ExpectedType: "array"})
		}
		for i, el := range content {
			if fe, bad := checkContentItem(i, el); bad {
				errs = append(errs, fe)
			}
		}
	}

	return finish(modeIntegrity, start, Performance{}, errs)
}

// checkContentItem returns the first problem with one content element.
func checkContentItem(i int, el any) (FieldError, bool) {
	field := fmt.Sprintf("content[%d]", i)

	item, ok := el.(map[string]any)
	if !ok {
		return FieldError{Field: field, Message: "content item must be an object", Value: describe(el), ExpectedType: "object"}, true
	}

	typ, ok := item["type"]
	if !ok {
		return FieldError{Field: field + ".type", Message: "content item is missing type"}, true
	}
	if typ != "text" {
		return FieldError{Field: field + ".type", Message: `content item type must be "text"`, Value: describe(typ)}, true
	}

	text, ok := item["text"]
	if !ok {
		return FieldError{Field: field + ".text", Message: "content item is missing text"}, true
	}
	if _, isString := text.(string); !isString {
		return FieldError{Field: field + ".text", Message: "content item text must be a string", Value: describe(text), ExpectedType: "string"}, true
	}

	for key := range item {
		if key != "type" && key != "text" {
			return FieldError{Field: field + "." + key, Message: fmt.Sprintf("unexpected field %s in content item", key)}, true
		}
	}
	return FieldError{}, false
}

// describe keeps scalar values and labels containers.
func describe(v any) any {
	switch v.(type) {
	case nil, bool, float64, string:
		return v
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
