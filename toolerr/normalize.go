package toolerr

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
)

// FallbackMessage is used when a caught value yields no usable text.
const FallbackMessage = "An unknown error occurred"

// Caught is a value recovered at a catch boundary: a returned error, a
// recovered panic value or anything else a tool produced in place of a result.
// It is one of NativeError, Text or Unknown.
type Caught interface {
	caught()
}

// NativeError is a caught Go error.
type NativeError struct {
	Err error
}

// Text is a caught value that carried a message: a string, a map with a
// "message" entry or a fmt.Stringer.
type Text string

// Unknown is a caught value with no recognizable message.
type Unknown struct {
	Value any
}

func (NativeError) caught() {}
func (Text) caught()        {}
func (Unknown) caught()     {}

// Catch classifies v. It never panics, even when v's String method does.
func Catch(v any) Caught {
	switch x := v.(type) {
	case nil:
		return Unknown{}
	case Caught:
		return x
	case error:
		return NativeError{Err: x}
	case string:
		return Text(x)
	case map[string]any:
		if msg, ok := messageField(x); ok {
			return Text(msg)
		}
		return Unknown{Value: v}
	case fmt.Stringer:
		if s, ok := safeCall(x.String); ok {
			return Text(s)
		}
		return Unknown{Value: v}
	default:
		return Unknown{Value: v}
	}
}

// messageField reads "message", then "error.message", then a string "error".
func messageField(m map[string]any) (string, bool) {
	if msg, ok := m["message"].(string); ok && msg != "" {
		return msg, true
	}
	switch inner := m["error"].(type) {
	case map[string]any:
		if msg, ok := inner["message"].(string); ok && msg != "" {
			return msg, true
		}
	case string:
		if inner != "" {
			return inner, true
		}
	}
	return "", false
}

// Message is the single formatting routine every handler uses. The result is
// never empty.
func Message(c Caught) string {
	var msg string
	switch x := c.(type) {
	case NativeError:
		msg = errorMessage(x.Err)
	case Text:
		msg = string(x)
	}

	msg = strings.TrimSpace(msg)
	if msg == "" {
		return FallbackMessage
	}
	return msg
}

// Normalize is shorthand for Message(Catch(v)).
func Normalize(v any) string {
	return Message(Catch(v))
}

// errorMessage extracts the readable part of err. A panic from a typed nil or
// a broken Error method yields an empty message.
func errorMessage(err error) (msg string) {
	defer func() {
		if r := recover(); r != nil {
			msg = ""
		}
	}()
	if err == nil {
		return ""
	}

	// Structured errors report their own message, without the tool header.
	if te, ok := err.(*Error); ok && te != nil {
		m := te.Message
		if te.Cause != nil {
			cause := errorMessage(te.Cause)
			if m == "" {
				m = cause
			} else if cause != "" {
				m += ": " + cause
			}
		}
		if m != "" {
			return m
		}
	}

	// Upstream errors carry a readable message separate from the HTTP noise.
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if gerr.Message != "" {
			return gerr.Message
		}
		for _, item := range gerr.Errors {
			if item.Message != "" {
				return item.Message
			}
		}
	}

	return err.Error()
}

// safeCall runs a String method, treating a panic as no message.
func safeCall(fn func() string) (s string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s, ok = "", false
		}
	}()
	return fn(), true
}
