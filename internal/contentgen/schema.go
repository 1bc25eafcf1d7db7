package contentgen

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var difficultyEnum = []any{"BEGINNER", "INTERMEDIATE", "ADVANCED", "EXPERT"}

func str() map[string]any { return map[string]any{"type": "string"} }

func strList() map[string]any {
	return map[string]any{"type": "array", "items": str()}
}

func number() map[string]any { return map[string]any{"type": "number"} }

// object builds an object schema. Extra keys from the model are allowed;
// keys in reserved are not, since the result envelope injects them.
func object(props map[string]any, required []any, reserved ...string) map[string]any {
	for _, k := range reserved {
		props[k] = false
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

var lessonContract = object(map[string]any{
	"title":       str(),
	"description": str(),
	"content": object(map[string]any{
		"introduction": str(),
		"mainContent": map[string]any{
			"type": "array",
			"items": object(map[string]any{
				"type": map[string]any{
					"type": "string",
					"enum": []any{"text", "example", "exercise", "tip", "quiz"},
				},
				"title":    str(),
				"content":  str(),
				"metadata": map[string]any{"type": "object"},
			}, []any{"type", "content"}),
		},
		"summary":      str(),
		"keyTakeaways": strList(),
	}, []any{"introduction", "mainContent", "summary", "keyTakeaways"}),
	"estimatedMinutes":   number(),
	"difficulty":         map[string]any{"type": "string", "enum": difficultyEnum},
	"prerequisites":      strList(),
	"learningObjectives": strList(),
	"exercises": map[string]any{
		"type": "array",
		"items": object(map[string]any{
			"type":        str(),
			"question":    str(),
			"options":     strList(),
			"explanation": str(),
			"hints":       strList(),
		}, []any{"question"}),
	},
	"resources": map[string]any{
		"type": "array",
		"items": object(map[string]any{
			"type":        str(),
			"title":       str(),
			"url":         str(),
			"description": str(),
		}, []any{"title"}),
	},
}, []any{"title", "description", "content", "estimatedMinutes", "difficulty"},
	reservedKeys(KindLesson)...)

var pathContract = object(map[string]any{
	"title":          str(),
	"description":    str(),
	"estimatedHours": number(),
	"difficulty":     map[string]any{"type": "string", "enum": difficultyEnum},
	"milestones": map[string]any{
		"type": "array",
		"items": object(map[string]any{
			"title":          str(),
			"description":    str(),
			"topics":         strList(),
			"estimatedHours": number(),
			"week":           number(),
		}, []any{"title", "description", "topics", "estimatedHours"}),
	},
	"prerequisites":    strList(),
	"learningOutcomes": strList(),
	"resources": map[string]any{
		"type": "array",
		"items": object(map[string]any{
			"type":             str(),
			"title":            str(),
			"description":      str(),
			"estimatedMinutes": number(),
		}, []any{"title"}),
	},
}, []any{"title", "description", "estimatedHours", "difficulty", "milestones"},
	reservedKeys(KindPath)...)

var adaptationContract = object(map[string]any{
	"adaptedContent": object(map[string]any{
		"title":      str(),
		"content":    str(),
		"difficulty": map[string]any{"type": "string", "enum": difficultyEnum},
		"adaptations": map[string]any{
			"type": "array",
			"items": object(map[string]any{
				"type": map[string]any{
					"type": "string",
					"enum": []any{"difficulty", "style", "pace", "support"},
				},
				"description":   str(),
				"originalValue": str(),
				"newValue":      str(),
			}, []any{"type", "description"}),
		},
	}, []any{"title", "content", "difficulty", "adaptations"}),
	"recommendations": object(map[string]any{
		"nextSteps": strList(),
		"additionalResources": map[string]any{
			"type": "array",
			"items": object(map[string]any{
				"type":             str(),
				"title":            str(),
				"description":      str(),
				"estimatedMinutes": number(),
			}, []any{"title"}),
		},
		"focusAreas":          strList(),
		"strengthsToLeverage": strList(),
	}, []any{"nextSteps"}),
	"performanceInsights": object(map[string]any{
		"analysis":          str(),
		"improvementAreas":  strList(),
		"successIndicators": strList(),
		"confidenceLevel": map[string]any{
			"type": "string",
			"enum": []any{"low", "medium", "high"},
		},
	}, []any{"analysis"}),
	"adaptationReason": str(),
}, []any{"adaptedContent", "recommendations", "adaptationReason"},
	reservedKeys(KindAdaptation)...)

var quizContract = map[string]any{
	"type":     "array",
	"minItems": 1,
	"items": object(map[string]any{
		"question": str(),
		"type": map[string]any{
			"type": "string",
			"enum": []any{"multiple_choice", "true_false", "fill_blank", "drag_drop"},
		},
		"options": strList(),
		"correctAnswer": map[string]any{
			"anyOf": []any{str(), strList()},
		},
		"explanation": str(),
		"difficulty":  map[string]any{"type": "string", "enum": difficultyEnum},
		"tags":        strList(),
	}, []any{"question", "type", "correctAnswer", "explanation", "difficulty"}),
}

var feedbackContract = object(map[string]any{
	"feedback":         str(),
	"strengths":        strList(),
	"improvementAreas": strList(),
	"recommendations":  strList(),
	"encouragement":    str(),
	"nextSteps":        strList(),
}, []any{"feedback", "strengths", "nextSteps"},
	reservedKeys(KindFeedback)...)

// OutputContract returns the JSON Schema a payload of kind must satisfy.
func OutputContract(k Kind) (map[string]any, bool) {
	switch k {
	case KindLesson:
		return lessonContract, true
	case KindPath:
		return pathContract, true
	case KindAdaptation:
		return adaptationContract, true
	case KindQuiz:
		return quizContract, true
	case KindFeedback:
		return feedbackContract, true
	}
	return nil, false
}

// schemaCache caches compiled contracts by kind.
var schemaCache sync.Map // map[Kind]*jsonschema.Schema

func compiledContract(k Kind) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(k); ok {
		return cached.(*jsonschema.Schema), nil
	}

	def, ok := OutputContract(k)
	if !ok {
		return nil, fmt.Errorf("no output contract for kind %q", k)
	}

	// The compiler wants a plain decoded JSON value.
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal contract: %w", err)
	}
	defParsed, err := jsonschema.UnmarshalJSON(strings.NewReader(string(defBytes)))
	if err != nil {
		return nil, fmt.Errorf("parse contract: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://tutorforge/%s.json", k)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(k, compiled)
	return compiled, nil
}

// ValidatePayload checks a parsed payload against the output contract for
// kind. A mismatch is a *SchemaError naming the first violating path.
func ValidatePayload(k Kind, payload any) error {
	compiled, err := compiledContract(k)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvariant, err)
	}

	err = compiled.Validate(payload)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &SchemaError{Kind: k, Message: err.Error()}
	}

	path, msg := firstViolation(ve, payload)
	return &SchemaError{Kind: k, Path: path, Message: msg}
}

var printer = message.NewPrinter(language.English)

type violation struct {
	loc  []string
	path string
	msg  string
}

// firstViolation picks the leaf error with the smallest instance path so
// the reported location does not depend on map iteration order inside the
// validator.
func firstViolation(ve *jsonschema.ValidationError, payload any) (string, string) {
	var leaves []violation
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, c := range e.Causes {
				walk(c)
			}
			return
		}
		loc := append([]string(nil), e.InstanceLocation...)
		if req, ok := e.ErrorKind.(*kind.Required); ok && len(req.Missing) > 0 {
			missing := append([]string(nil), req.Missing...)
			sort.Strings(missing)
			loc = append(loc, missing[0])
			leaves = append(leaves, violation{loc: loc, msg: "missing required property"})
			return
		}
		if _, ok := e.ErrorKind.(*kind.FalseSchema); ok {
			leaves = append(leaves, violation{loc: loc, msg: "reserved property must not be generated"})
			return
		}
		leaves = append(leaves, violation{loc: loc, msg: e.ErrorKind.LocalizedString(printer)})
	}
	walk(ve)

	if len(leaves) == 0 {
		return renderPath(ve.InstanceLocation, payload), ve.ErrorKind.LocalizedString(printer)
	}
	for i := range leaves {
		leaves[i].path = renderPath(leaves[i].loc, payload)
	}
	sort.SliceStable(leaves, func(i, j int) bool {
		if leaves[i].path != leaves[j].path {
			return leaves[i].path < leaves[j].path
		}
		return leaves[i].msg < leaves[j].msg
	})
	return leaves[0].path, leaves[0].msg
}

// renderPath turns JSON pointer tokens into a dotted path with [i] for
// array indexes, e.g. content.mainContent[0].type. The payload is walked to
// tell array indexes from numeric object keys.
func renderPath(tokens []string, payload any) string {
	var b strings.Builder
	cur := payload
	for _, tok := range tokens {
		switch node := cur.(type) {
		case []any:
			fmt.Fprintf(&b, "[%s]", tok)
			if i, err := strconv.Atoi(tok); err == nil && i >= 0 && i < len(node) {
				cur = node[i]
			} else {
				cur = nil
			}
		case map[string]any:
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(tok)
			cur = node[tok]
		default:
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(tok)
			cur = nil
		}
	}
	return b.String()
}
