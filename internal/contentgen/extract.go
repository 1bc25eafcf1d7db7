package contentgen

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/abhisek/tutorforge/internal/llm"
)

// GeneratedText returns candidates[0].content.parts[0].text from env.
// A missing or blank text is an *EmptyGenerationError.
func GeneratedText(env *llm.Envelope) (string, error) {
	text, ok := env.FirstText()
	if !ok || strings.TrimSpace(text) == "" {
		var reason string
		if env != nil && len(env.Candidates) > 0 {
			reason = env.Candidates[0].FinishReason
		}
		return "", &EmptyGenerationError{FinishReason: reason}
	}
	return text, nil
}

// FindJSONSpan returns the first balanced top-level JSON object or array in
// text, scanning left to right. Brackets inside JSON string literals do not
// count. A candidate that hits a mismatched closer or runs off the end of
// the text is abandoned and scanning resumes at the next opener. Bracketed
// prose such as "[JSON]" ahead of the payload is therefore the span found.
func FindJSONSpan(text string) (string, bool) {
	for start := 0; start < len(text); start++ {
		if c := text[start]; c != '{' && c != '[' {
			continue
		}
		if end, ok := balancedEnd(text, start); ok {
			return text[start : end+1], true
		}
	}
	return "", false
}

// balancedEnd returns the index of the bracket closing text[start].
func balancedEnd(text string, start int) (int, bool) {
	stack := make([]byte, 0, 16)
	inString, escaped := false, false

	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, c)
		case '}', ']':
			open := byte('{')
			if c == ']' {
				open = '['
			}
			if stack[len(stack)-1] != open {
				return 0, false
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// ParseJSON decodes a single JSON value, keeping numbers as json.Number so
// a re-encoded payload is byte-for-byte stable.
func ParseJSON(span string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(span))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &MalformedJSONError{Raw: span, Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &MalformedJSONError{Raw: span, Err: errors.New("unexpected data after top-level value")}
	}
	return v, nil
}

// ExtractJSON locates and parses the JSON payload in text.
func ExtractJSON(text string) (any, error) {
	span, ok := FindJSONSpan(text)
	if !ok {
		return nil, &ExtractionError{Text: text}
	}
	return ParseJSON(span)
}

// Extract runs the full extraction stage for kind: read the generated text,
// locate and parse the JSON span, and validate it against the kind's
// output contract.
func Extract(kind Kind, env *llm.Envelope) (any, error) {
	text, err := GeneratedText(env)
	if err != nil {
		return nil, err
	}

	payload, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}

	if err := ValidatePayload(kind, payload); err != nil {
		var se *SchemaError
		if errors.As(err, &se) {
			se.Raw = text
		}
		return nil, err
	}
	return payload, nil
}

// canonicalJSON re-encodes a parsed payload without HTML escaping.
func canonicalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
