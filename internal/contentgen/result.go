package contentgen

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// TimeFormat is the createdAt layout: UTC with millisecond precision.
const TimeFormat = "2006-01-02T15:04:05.000Z07:00"

// GenerationResult is a validated payload wrapped with its identity and the
// request parameters that produced it. It is immutable after Assemble.
type GenerationResult struct {
	Kind      Kind
	ID        string
	CreatedAt time.Time
	Payload   any

	// Echo is serialized as requestParams.
	Echo map[string]any

	// Extra holds kind-specific top-level fields such as originalContent
	// and adaptationStrategy for adaptations.
	Extra map[string]any
}

// Injected result keys. A payload must not carry any of them.
const (
	keyID                 = "id"
	keyCreatedAt          = "createdAt"
	keyRequestParams      = "requestParams"
	keyOriginalContent    = "originalContent"
	keyUserPerformance    = "userPerformance"
	keyAdaptationStrategy = "adaptationStrategy"
	keyUserID             = "userId"
	keyQuestions          = "questions"
)

func reservedKeys(k Kind) []string {
	keys := []string{keyID, keyCreatedAt, keyRequestParams}
	switch k {
	case KindAdaptation:
		keys = append(keys, keyOriginalContent, keyUserPerformance, keyAdaptationStrategy)
	case KindPath:
		keys = append(keys, keyUserID)
	}
	return keys
}

// Echo is the part of a request copied into its result.
type Echo struct {
	Params map[string]any
	Extra  map[string]any
}

// EchoFor returns the parameters that determined generation for req. The
// prompt and any provider settings are never included. Values are copied, so
// later changes to req do not reach the result.
func EchoFor(req Request, strategy AdaptationStrategy) Echo {
	switch r := req.(type) {
	case *LessonRequest:
		lessonType := r.LessonType
		if lessonType == "" {
			lessonType = LessonTheory
		}
		return Echo{Params: map[string]any{
			"topic":           r.Topic,
			"difficulty":      r.Difficulty,
			"learningStyle":   r.LearningStyle,
			"lessonType":      lessonType,
			"durationMinutes": deref(r.DurationMinutes),
		}}
	case *PathRequest:
		params := map[string]any{
			"topic":         r.Topic,
			"currentLevel":  r.CurrentLevel,
			"learningStyle": r.LearningStyle,
			"goals":         slices.Clone(r.Goals),
			"weeklyHours":   deref(r.WeeklyHours),
			"durationWeeks": r.Weeks(),
		}
		var extra map[string]any
		if r.UserID != "" {
			extra = map[string]any{keyUserID: r.UserID}
		}
		return Echo{Params: params, Extra: extra}
	case *AdaptationRequest:
		params := map[string]any{
			"targetDifficulty": r.TargetDifficulty,
			"learningStyle":    r.LearningStyle,
		}
		if r.AdaptationType != "" {
			params["adaptationType"] = r.AdaptationType
		}
		return Echo{Params: params, Extra: map[string]any{
			keyOriginalContent:    r.CurrentContent.clone(),
			keyUserPerformance:    r.Performance.clone(),
			keyAdaptationStrategy: strategy,
		}}
	case *QuizRequest:
		return Echo{Params: map[string]any{
			"topic":      r.Topic,
			"difficulty": r.Difficulty,
			"count":      r.Questions(),
		}}
	case *FeedbackRequest:
		return Echo{Params: map[string]any{
			"learningStyle": r.LearningStyle,
			"progress":      r.Progress.clone(),
			"performance":   r.Performance.clone(),
		}}
	}
	return Echo{}
}

func (c *ContentSnapshot) clone() *ContentSnapshot {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

func (p *PerformanceSnapshot) clone() *PerformanceSnapshot {
	if p == nil {
		return nil
	}
	return &PerformanceSnapshot{
		Score:            clonePtr(p.Score),
		TimeSpentMinutes: clonePtr(p.TimeSpentMinutes),
		AttemptsCount:    clonePtr(p.AttemptsCount),
		StrugglingAreas:  slices.Clone(p.StrugglingAreas),
		StrongAreas:      slices.Clone(p.StrongAreas),
	}
}

func (p *ProgressSnapshot) clone() *ProgressSnapshot {
	if p == nil {
		return nil
	}
	return &ProgressSnapshot{
		Topic:            p.Topic,
		CompletedLessons: clonePtr(p.CompletedLessons),
		TotalLessons:     clonePtr(p.TotalLessons),
		StreakDays:       clonePtr(p.StreakDays),
		MasteredTopics:   slices.Clone(p.MasteredTopics),
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// NewResultID returns a fresh "<kind>_<uuid>" identifier.
func NewResultID(k Kind) string {
	return string(k) + "_" + uuid.NewString()
}

// Assemble wraps a validated payload with a fresh id and the current UTC
// time.
func Assemble(k Kind, payload any, echo Echo) (*GenerationResult, error) {
	return assemble(k, payload, echo, NewResultID(k), time.Now().UTC())
}

func assemble(k Kind, payload any, echo Echo, id string, now time.Time) (*GenerationResult, error) {
	switch p := payload.(type) {
	case map[string]any:
		if k == KindQuiz {
			return nil, fmt.Errorf("%w: quiz payload must be an array", ErrInvariant)
		}
		for _, key := range reservedKeys(k) {
			if _, ok := p[key]; ok {
				return nil, fmt.Errorf("%w: payload key %q collides with a result field", ErrInvariant, key)
			}
		}
	case []any:
		if k != KindQuiz {
			return nil, fmt.Errorf("%w: %s payload must be an object", ErrInvariant, k)
		}
	default:
		return nil, fmt.Errorf("%w: unexpected payload type %T", ErrInvariant, payload)
	}

	return &GenerationResult{
		Kind:      k,
		ID:        id,
		CreatedAt: now.UTC(),
		Payload:   payload,
		Echo:      echo.Params,
		Extra:     echo.Extra,
	}, nil
}

// Fields returns the flat top-level view of the result: payload fields,
// then id, createdAt, requestParams and any kind-specific extras. A quiz
// payload sits under "questions".
func (r *GenerationResult) Fields() map[string]any {
	out := make(map[string]any)
	switch p := r.Payload.(type) {
	case map[string]any:
		for k, v := range p {
			out[k] = v
		}
	default:
		out[keyQuestions] = p
	}
	out[keyID] = r.ID
	out[keyCreatedAt] = r.CreatedAt.UTC().Format(TimeFormat)
	params := r.Echo
	if params == nil {
		params = map[string]any{}
	}
	out[keyRequestParams] = params
	for k, v := range r.Extra {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the flat view without HTML escaping.
func (r *GenerationResult) MarshalJSON() ([]byte, error) {
	return canonicalJSON(r.Fields())
}
