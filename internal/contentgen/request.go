package contentgen

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Request is one of *LessonRequest, *PathRequest, *AdaptationRequest or
// *QuizRequest.
type Request interface {
	Kind() Kind
}

// UserContext carries optional learner history for lesson prompts.
type UserContext struct {
	PreviousLessons []string `json:"previousLessons,omitempty"`
	Strengths       []string `json:"strengths,omitempty"`
	Weaknesses      []string `json:"weaknesses,omitempty"`
	Preferences     []string `json:"preferences,omitempty"`
}

// LessonRequest asks for a single lesson on a topic.
type LessonRequest struct {
	Topic           string        `json:"topic" validate:"required,notblank"`
	Difficulty      Difficulty    `json:"difficulty" validate:"required,oneof=BEGINNER INTERMEDIATE ADVANCED EXPERT"`
	LearningStyle   LearningStyle `json:"learningStyle" validate:"required,oneof=VISUAL AUDITORY KINESTHETIC READING"`
	LessonType      LessonType    `json:"lessonType,omitempty" validate:"omitempty,oneof=THEORY PRACTICE PROJECT ASSESSMENT"`
	DurationMinutes *float64      `json:"durationMinutes" validate:"required,gte=5,lte=180"`
	UserContext     *UserContext  `json:"userContext,omitempty"`
}

func (*LessonRequest) Kind() Kind { return KindLesson }

// PathRequest asks for a multi-week learning path toward a set of goals.
type PathRequest struct {
	UserID        string        `json:"userId,omitempty"`
	Topic         string        `json:"topic" validate:"required,notblank"`
	CurrentLevel  Difficulty    `json:"currentLevel" validate:"required,oneof=BEGINNER INTERMEDIATE ADVANCED EXPERT"`
	LearningStyle LearningStyle `json:"learningStyle" validate:"required,oneof=VISUAL AUDITORY KINESTHETIC READING"`
	Goals         []string      `json:"goals" validate:"required,min=1,dive,notblank"`
	WeeklyHours   *float64      `json:"weeklyHours" validate:"required,gte=1,lte=168"`
	DurationWeeks *int          `json:"durationWeeks,omitempty" validate:"omitempty,gte=1,lte=52"`
}

func (*PathRequest) Kind() Kind { return KindPath }

// DefaultDurationWeeks applies when a path request leaves durationWeeks unset.
const DefaultDurationWeeks = 12

// Weeks returns the requested duration or DefaultDurationWeeks.
func (r *PathRequest) Weeks() int {
	if r.DurationWeeks == nil {
		return DefaultDurationWeeks
	}
	return *r.DurationWeeks
}

// ContentSnapshot is the content being adapted.
type ContentSnapshot struct {
	Title      string     `json:"title" validate:"required"`
	Content    string     `json:"content" validate:"required"`
	Difficulty Difficulty `json:"difficulty" validate:"required,oneof=BEGINNER INTERMEDIATE ADVANCED EXPERT"`
	Type       string     `json:"type,omitempty"`
}

// PerformanceSnapshot is the learner's result on the current content and
// the sole input to strategy selection.
type PerformanceSnapshot struct {
	Score            *float64 `json:"score" validate:"required,gte=0,lte=100"`
	TimeSpentMinutes *float64 `json:"timeSpentMinutes" validate:"required,gte=0"`
	AttemptsCount    *int     `json:"attemptsCount" validate:"required,gte=1"`
	StrugglingAreas  []string `json:"strugglingAreas,omitempty"`
	StrongAreas      []string `json:"strongAreas,omitempty"`
}

// AdaptationRequest asks for existing content to be rewritten in light of
// how the learner performed on it.
type AdaptationRequest struct {
	CurrentContent   *ContentSnapshot     `json:"currentContent" validate:"required"`
	TargetDifficulty Difficulty           `json:"targetDifficulty" validate:"required,oneof=BEGINNER INTERMEDIATE ADVANCED EXPERT"`
	Performance      *PerformanceSnapshot `json:"performance" validate:"required"`
	LearningStyle    LearningStyle        `json:"learningStyle" validate:"required,oneof=VISUAL AUDITORY KINESTHETIC READING"`
	AdaptationType   AdaptationType       `json:"adaptationType,omitempty" validate:"omitempty,oneof=DIFFICULTY STYLE PACE COMPREHENSIVE"`
}

func (*AdaptationRequest) Kind() Kind { return KindAdaptation }

// QuizRequest asks for a set of quiz questions. Count defaults to
// DefaultQuizCount.
type QuizRequest struct {
	Topic      string     `json:"topic" validate:"required,notblank"`
	Difficulty Difficulty `json:"difficulty" validate:"required,oneof=BEGINNER INTERMEDIATE ADVANCED EXPERT"`
	Count      *int       `json:"count,omitempty" validate:"omitempty,gte=1,lte=20"`
}

func (*QuizRequest) Kind() Kind { return KindQuiz }

// DefaultQuizCount applies when a quiz request leaves count unset.
const DefaultQuizCount = 5

// Questions returns the requested count or DefaultQuizCount.
func (r *QuizRequest) Questions() int {
	if r.Count == nil {
		return DefaultQuizCount
	}
	return *r.Count
}

// ProgressSnapshot summarizes a learner's progress on a topic.
type ProgressSnapshot struct {
	Topic            string   `json:"topic" validate:"required,notblank"`
	CompletedLessons *int     `json:"completedLessons" validate:"required,gte=0"`
	TotalLessons     *int     `json:"totalLessons,omitempty" validate:"omitempty,gte=1"`
	StreakDays       *int     `json:"streakDays,omitempty" validate:"omitempty,gte=0"`
	MasteredTopics   []string `json:"masteredTopics,omitempty"`
}

// FeedbackRequest asks for personalized feedback on a learner's progress.
type FeedbackRequest struct {
	Progress      *ProgressSnapshot    `json:"progress" validate:"required"`
	Performance   *PerformanceSnapshot `json:"performance" validate:"required"`
	LearningStyle LearningStyle        `json:"learningStyle" validate:"required,oneof=VISUAL AUDITORY KINESTHETIC READING"`
}

func (*FeedbackRequest) Kind() Kind { return KindFeedback }

// RequiredFields lists the fields a caller must send for kind, in the
// order they are documented.
func RequiredFields(kind Kind) []string {
	switch kind {
	case KindLesson:
		return []string{"topic", "difficulty", "learningStyle", "durationMinutes"}
	case KindPath:
		return []string{"topic", "currentLevel", "learningStyle", "goals", "weeklyHours"}
	case KindAdaptation:
		return []string{"currentContent", "targetDifficulty", "performance", "learningStyle"}
	case KindQuiz:
		return []string{"topic", "difficulty"}
	case KindFeedback:
		return []string{"progress", "performance", "learningStyle"}
	}
	return nil
}

// ParseRequest decodes raw into the request type for kind and validates it.
// Every violation, including each JSON type mismatch, is reported in a
// single *ValidationError.
func ParseRequest(kind Kind, raw []byte) (Request, error) {
	var req Request
	switch kind {
	case KindLesson:
		req = &LessonRequest{}
	case KindPath:
		req = &PathRequest{}
	case KindAdaptation:
		req = &AdaptationRequest{}
	case KindQuiz:
		req = &QuizRequest{}
	case KindFeedback:
		req = &FeedbackRequest{}
	default:
		return nil, fmt.Errorf("unknown content kind %q", kind)
	}

	body, bad := decodeBody(raw)
	if bad != nil {
		return nil, &ValidationError{Kind: kind, Fields: []FieldError{*bad}}
	}

	// Mistyped values are dropped from body so binding cannot fail and
	// cannot leave zero values behind for them.
	typeErrs := typeViolations("", body, reflect.TypeOf(req))
	clean, mErr := json.Marshal(body)
	if mErr != nil {
		return nil, fmt.Errorf("%w: re-encode request: %v", ErrInvariant, mErr)
	}
	if uErr := json.Unmarshal(clean, req); uErr != nil {
		return nil, fmt.Errorf("%w: bind request: %v", ErrInvariant, uErr)
	}

	fields := mergeTypeErrors(typeErrs, structViolations(req))
	if len(fields) > 0 {
		return nil, &ValidationError{Kind: kind, Fields: fields}
	}
	return req, nil
}

// decodeBody parses raw as a JSON object with numbers kept as json.Number.
func decodeBody(raw []byte) (map[string]any, *FieldError) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &FieldError{Rule: "json", Message: "request body is not valid JSON: " + err.Error()}
	}
	if dec.More() {
		return nil, &FieldError{Rule: "json", Message: "request body has trailing data after the JSON value"}
	}
	body, ok := v.(map[string]any)
	if !ok {
		return nil, &FieldError{Rule: "type", Message: "request body must be a JSON object"}
	}
	return body, nil
}

// Validate checks an already-typed request.
func Validate(req Request) error {
	if req == nil || reflect.ValueOf(req).IsNil() {
		return fmt.Errorf("%w: nil request", ErrInvariant)
	}
	if fields := structViolations(req); len(fields) > 0 {
		return &ValidationError{Kind: req.Kind(), Fields: fields}
	}
	return nil
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		validate = v
	})
	return validate
}

func structViolations(req Request) []FieldError {
	err := requestValidator().Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Rule: "invalid", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fieldPath(fe.Namespace()),
			Rule:    fe.Tag(),
			Message: ruleMessage(fe),
		})
	}
	return out
}

// fieldPath drops the leading struct name from a validator namespace:
// "AdaptationRequest.performance.score" -> "performance.score".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "min":
		if k := fe.Kind(); k == reflect.Slice || k == reflect.Array {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return "must be at least " + fe.Param()
	default:
		return fmt.Sprintf("failed the %s rule", fe.Tag())
	}
}

// typeViolations walks obj alongside the struct type t and reports every
// value whose JSON type does not fit its field. Offending values are removed
// from obj (or nulled inside arrays, so indexes stay stable).
func typeViolations(prefix string, obj map[string]any, t reflect.Type) []FieldError {
	t = baseType(t)
	if t.Kind() != reflect.Struct {
		return nil
	}
	var out []FieldError
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		v, ok := obj[name]
		if !ok || v == nil {
			continue
		}
		path := joinPath(prefix, name)
		errs, keep := checkValue(path, v, f.Type)
		out = append(out, errs...)
		if !keep {
			delete(obj, name)
		}
	}
	return out
}

// checkValue reports whether v may be bound to a field of type t, recursing
// into objects and arrays.
func checkValue(path string, v any, t reflect.Type) ([]FieldError, bool) {
	t = baseType(t)
	mismatch := func() ([]FieldError, bool) {
		return []FieldError{{Field: path, Rule: "type", Message: "must be " + jsonTypeName(t)}}, false
	}
	switch t.Kind() {
	case reflect.String:
		if _, ok := v.(string); !ok {
			return mismatch()
		}
	case reflect.Bool:
		if _, ok := v.(bool); !ok {
			return mismatch()
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := v.(json.Number)
		if !ok {
			return mismatch()
		}
		if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
			return mismatch()
		}
	case reflect.Float32, reflect.Float64:
		n, ok := v.(json.Number)
		if !ok {
			return mismatch()
		}
		if _, err := n.Float64(); err != nil {
			return mismatch()
		}
	case reflect.Slice, reflect.Array:
		items, ok := v.([]any)
		if !ok {
			return mismatch()
		}
		var out []FieldError
		for i, item := range items {
			if item == nil {
				continue
			}
			errs, keep := checkValue(fmt.Sprintf("%s[%d]", path, i), item, t.Elem())
			out = append(out, errs...)
			if !keep {
				items[i] = nil
			}
		}
		return out, true
	case reflect.Struct:
		m, ok := v.(map[string]any)
		if !ok {
			return mismatch()
		}
		return typeViolations(path, m, t), true
	case reflect.Map:
		if _, ok := v.(map[string]any); !ok {
			return mismatch()
		}
	}
	return nil, true
}

func baseType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func jsonTypeName(t reflect.Type) string {
	switch baseType(t).Kind() {
	case reflect.String:
		return "a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice, reflect.Array:
		return "an array"
	default:
		return "an object"
	}
}

// mergeTypeErrors puts type mismatches first and drops the follow-on
// violations (such as "required") left by removing the mistyped values.
func mergeTypeErrors(typeErrs, fields []FieldError) []FieldError {
	out := append([]FieldError(nil), typeErrs...)
	for _, f := range fields {
		if shadowed(f.Field, typeErrs) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func shadowed(field string, typeErrs []FieldError) bool {
	for _, te := range typeErrs {
		if field == te.Field || strings.HasPrefix(field, te.Field+".") ||
			strings.HasPrefix(field, te.Field+"[") {
			return true
		}
	}
	return false
}
