package contentgen

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvariant marks an internal failure that valid input can never cause,
// e.g. a payload key colliding with an injected result field.
var ErrInvariant = errors.New("contentgen: invariant violated")

// FieldError is a single request field violation.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError lists every violation found in a request.
type ValidationError struct {
	Kind   Kind
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Field == "" {
			parts = append(parts, f.Message)
			continue
		}
		parts = append(parts, f.Field+" "+f.Message)
	}
	return fmt.Sprintf("invalid %s request: %s", e.Kind, strings.Join(parts, "; "))
}

// HasField reports whether field is among the violations.
func (e *ValidationError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// EmptyGenerationError means the provider answered without any text.
type EmptyGenerationError struct {
	FinishReason string
}

func (e *EmptyGenerationError) Error() string {
	if e.FinishReason != "" {
		return fmt.Sprintf("no content generated (finish reason %s)", e.FinishReason)
	}
	return "no content generated"
}

// ExtractionError means the generated text holds no balanced JSON object
// or array.
type ExtractionError struct {
	Text string
}

func (e *ExtractionError) Error() string {
	return "no JSON object or array found in generated text"
}

// MalformedJSONError means the extracted span is not valid JSON.
type MalformedJSONError struct {
	Raw string
	Err error
}

func (e *MalformedJSONError) Error() string {
	return fmt.Sprintf("invalid JSON in generated text: %v", e.Err)
}

func (e *MalformedJSONError) Unwrap() error { return e.Err }

// SchemaError means the payload does not match the output contract of its
// kind. Path names the first violating location, e.g.
// "content.mainContent[0].type"; it is empty for the document root.
type SchemaError struct {
	Kind    Kind
	Path    string
	Message string
	Raw     string
}

func (e *SchemaError) Error() string {
	path := e.Path
	if path == "" {
		path = "(root)"
	}
	return fmt.Sprintf("generated %s does not match its contract at %s: %s", e.Kind, path, e.Message)
}

// RawText returns the provider text attached to an extraction-stage error,
// if err is one.
func RawText(err error) (string, bool) {
	var (
		ee *ExtractionError
		me *MalformedJSONError
		se *SchemaError
	)
	switch {
	case errors.As(err, &ee):
		return ee.Text, true
	case errors.As(err, &me):
		return me.Raw, true
	case errors.As(err, &se):
		return se.Raw, true
	}
	return "", false
}
