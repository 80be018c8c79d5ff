package response

import (
	"fmt"
)

// ValidateMCPResponse checks the envelope sent to MCP clients:
// {success:bool, content:[{type:"text", text:string}], error?, metadata?}.
// Every mismatch is reported.
func (v *Validator) ValidateMCPResponse(value any) ValidationResult {
	return v.check(SchemaMCPResponse, value, nil)
}

// ValidateToolResponse checks a tool result ({success, data, metadata}) and
// then applies the identifier rules whose keyword appears in toolName. Only
// the first matching rule checks bare "id" fields.
func (v *Validator) ValidateToolResponse(value any, toolName string) ValidationResult {
	rules := v.rulesFor(toolName)
	return v.check(SchemaToolResponse, value, func(doc any) []FieldError {
		root, ok := doc.(map[string]any)
		if !ok {
			return nil
		}
		errs := outcomeErrors(root)
		data, _ := root["data"].(map[string]any)
		for i, rule := range rules {
			errs = append(errs, rule.check(data, i == 0)...)
		}
		return errs
	})
}

// outcomeErrors enforces that a result is either a success with data or a
// failure with an error message, never both and never neither.
func outcomeErrors(root map[string]any) []FieldError {
	success, ok := root["success"].(bool)
	if !ok {
		return nil
	}
	_, hasData := root["data"]
	_, hasError := root["error"]

	switch {
	case success && !hasData:
		return []FieldError{{Field: "data", Message: "successful result must carry data"}}
	case success && hasError:
		return []FieldError{{Field: "error", Message: "successful result must not carry an error"}}
	case !success && !hasError:
		return []FieldError{{Field: "error", Message: "failed result must carry an error message"}}
	case !success && hasData:
		return []FieldError{{Field: "data", Message: "failed result must not carry data"}}
	}
	return nil
}

// ValidateYouTubeAPIResponse checks a raw Data API list payload
// ({kind, etag, items[], pageInfo?, nextPageToken?}). An upstream error
// object in the payload is reported as well.
func (v *Validator) ValidateYouTubeAPIResponse(value any) ValidationResult {
	return v.check(SchemaYouTubeAPIResponse, value, func(doc any) []FieldError {
		root, ok := doc.(map[string]any)
		if !ok {
			return nil
		}
		upstream, ok := root["error"].(map[string]any)
		if !ok {
			return nil
		}
		msg, _ := upstream["message"].(string)
		if msg == "" {
			msg = "unknown upstream error"
		}
		fe := FieldError{
			Field:   "error",
			Message: fmt.Sprintf("YouTube API error: %s", msg),
		}
		if code, ok := upstream["code"].(float64); ok {
			fe.Value = code
		}
		return []FieldError{fe}
	})
}
