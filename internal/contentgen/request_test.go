package contentgen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationError(t *testing.T, err error) *ValidationError {
	t.Helper()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "expected *ValidationError, got %T: %v", err, err)
	return ve
}

func TestParseRequest_Lesson(t *testing.T) {
	req, err := ParseRequest(KindLesson, []byte(`{
		"topic": "Recursion",
		"difficulty": "BEGINNER",
		"learningStyle": "VISUAL",
		"durationMinutes": 30,
		"userContext": {"strengths": ["loops"]}
	}`))
	require.NoError(t, err)

	lesson, ok := req.(*LessonRequest)
	require.True(t, ok)
	assert.Equal(t, "Recursion", lesson.Topic)
	assert.Equal(t, Beginner, lesson.Difficulty)
	assert.Equal(t, 30.0, *lesson.DurationMinutes)
	assert.Equal(t, []string{"loops"}, lesson.UserContext.Strengths)
	assert.Equal(t, KindLesson, req.Kind())
}

func TestParseRequest_ReportsEveryMissingField(t *testing.T) {
	_, err := ParseRequest(KindLesson, []byte(`{}`))
	ve := validationError(t, err)

	for _, field := range RequiredFields(KindLesson) {
		assert.True(t, ve.HasField(field), "missing violation for %s in %v", field, ve.Fields)
	}
	assert.Len(t, ve.Fields, len(RequiredFields(KindLesson)))
}

func TestParseRequest_EmptyGoals(t *testing.T) {
	_, err := ParseRequest(KindPath, []byte(`{
		"topic": "Go",
		"currentLevel": "BEGINNER",
		"learningStyle": "READING",
		"goals": [],
		"weeklyHours": 5
	}`))
	ve := validationError(t, err)

	require.Len(t, ve.Fields, 1)
	assert.Equal(t, "goals", ve.Fields[0].Field)
	assert.Equal(t, "min", ve.Fields[0].Rule)
}

func TestParseRequest_BlankGoal(t *testing.T) {
	_, err := ParseRequest(KindPath, []byte(`{
		"topic": "Go",
		"currentLevel": "BEGINNER",
		"learningStyle": "READING",
		"goals": ["ship a CLI", "  "],
		"weeklyHours": 5
	}`))
	ve := validationError(t, err)
	assert.True(t, ve.HasField("goals[1]"), "got %v", ve.Fields)
}

func TestParseRequest_Ranges(t *testing.T) {
	tests := []struct {
		name  string
		kind  Kind
		body  string
		field string
		rule  string
	}{
		{
			name:  "lesson too short",
			kind:  KindLesson,
			body:  `{"topic":"x","difficulty":"BEGINNER","learningStyle":"VISUAL","durationMinutes":2}`,
			field: "durationMinutes",
			rule:  "gte",
		},
		{
			name:  "unknown difficulty",
			kind:  KindLesson,
			body:  `{"topic":"x","difficulty":"NOVICE","learningStyle":"VISUAL","durationMinutes":30}`,
			field: "difficulty",
			rule:  "oneof",
		},
		{
			name:  "blank topic",
			kind:  KindQuiz,
			body:  `{"topic":"   ","difficulty":"BEGINNER"}`,
			field: "topic",
			rule:  "notblank",
		},
		{
			name:  "too many questions",
			kind:  KindQuiz,
			body:  `{"topic":"Go","difficulty":"BEGINNER","count":21}`,
			field: "count",
			rule:  "lte",
		},
		{
			name:  "weekly hours over a week",
			kind:  KindPath,
			body:  `{"topic":"Go","currentLevel":"BEGINNER","learningStyle":"READING","goals":["a"],"weeklyHours":169}`,
			field: "weeklyHours",
			rule:  "lte",
		},
		{
			name:  "zero weeks",
			kind:  KindPath,
			body:  `{"topic":"Go","currentLevel":"BEGINNER","learningStyle":"READING","goals":["a"],"weeklyHours":4,"durationWeeks":0}`,
			field: "durationWeeks",
			rule:  "gte",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRequest(tt.kind, []byte(tt.body))
			ve := validationError(t, err)
			require.Len(t, ve.Fields, 1, "got %v", ve.Fields)
			assert.Equal(t, tt.field, ve.Fields[0].Field)
			assert.Equal(t, tt.rule, ve.Fields[0].Rule)
		})
	}
}

func TestParseRequest_AdaptationNested(t *testing.T) {
	_, err := ParseRequest(KindAdaptation, []byte(`{
		"currentContent": {"title": "Loops", "content": "for i := range n", "difficulty": "BEGINNER"},
		"targetDifficulty": "INTERMEDIATE",
		"performance": {"score": 120, "timeSpentMinutes": 10, "attemptsCount": 0},
		"learningStyle": "KINESTHETIC"
	}`))
	ve := validationError(t, err)

	assert.True(t, ve.HasField("performance.score"), "got %v", ve.Fields)
	assert.True(t, ve.HasField("performance.attemptsCount"), "got %v", ve.Fields)
	assert.Len(t, ve.Fields, 2)
}

func TestParseRequest_ZeroScoreIsValid(t *testing.T) {
	req, err := ParseRequest(KindAdaptation, []byte(`{
		"currentContent": {"title": "Loops", "content": "for i := range n", "difficulty": "BEGINNER"},
		"targetDifficulty": "BEGINNER",
		"performance": {"score": 0, "timeSpentMinutes": 0, "attemptsCount": 1},
		"learningStyle": "VISUAL"
	}`))
	require.NoError(t, err)
	assert.Equal(t, SimplifyAndReinforce, StrategyFor(req))
}

func TestParseRequest_TypeMismatch(t *testing.T) {
	_, err := ParseRequest(KindLesson, []byte(`{
		"topic": "Recursion",
		"difficulty": "BEGINNER",
		"learningStyle": "VISUAL",
		"durationMinutes": "thirty"
	}`))
	ve := validationError(t, err)

	require.Len(t, ve.Fields, 1)
	assert.Equal(t, FieldError{Field: "durationMinutes", Rule: "type", Message: "must be a number"}, ve.Fields[0])
}

func TestParseRequest_EveryTypeMismatchReported(t *testing.T) {
	_, err := ParseRequest(KindAdaptation, []byte(`{
		"currentContent": {"title": "Loops", "content": "for i := range n", "difficulty": "BEGINNER"},
		"targetDifficulty": "INTERMEDIATE",
		"performance": {"score": "high", "timeSpentMinutes": "x", "attemptsCount": "two"},
		"learningStyle": "KINESTHETIC"
	}`))
	ve := validationError(t, err)

	assert.ElementsMatch(t, []FieldError{
		{Field: "performance.score", Rule: "type", Message: "must be a number"},
		{Field: "performance.timeSpentMinutes", Rule: "type", Message: "must be a number"},
		{Field: "performance.attemptsCount", Rule: "type", Message: "must be an integer"},
	}, ve.Fields)
}

func TestParseRequest_TypeMismatchAlongsideRuleViolations(t *testing.T) {
	_, err := ParseRequest(KindPath, []byte(`{
		"topic": "Go",
		"currentLevel": "NOVICE",
		"learningStyle": "READING",
		"goals": ["ship a CLI", 7],
		"weeklyHours": "lots",
		"durationWeeks": 2.5
	}`))
	ve := validationError(t, err)

	require.Len(t, ve.Fields, 4, "got %v", ve.Fields)
	assert.Equal(t, "type", ve.Fields[0].Rule)
	assert.True(t, ve.HasField("goals[1]"), "got %v", ve.Fields)
	assert.True(t, ve.HasField("weeklyHours"), "got %v", ve.Fields)
	assert.True(t, ve.HasField("durationWeeks"), "got %v", ve.Fields)
	assert.True(t, ve.HasField("currentLevel"), "got %v", ve.Fields)
}

func TestParseRequest_NestedObjectMistyped(t *testing.T) {
	_, err := ParseRequest(KindAdaptation, []byte(`{
		"currentContent": "Loops",
		"targetDifficulty": "INTERMEDIATE",
		"performance": {"score": 50, "timeSpentMinutes": 3, "attemptsCount": 1},
		"learningStyle": "VISUAL"
	}`))
	ve := validationError(t, err)

	require.Len(t, ve.Fields, 1, "got %v", ve.Fields)
	assert.Equal(t, FieldError{Field: "currentContent", Rule: "type", Message: "must be an object"}, ve.Fields[0])
}

func TestParseRequest_Feedback(t *testing.T) {
	req, err := ParseRequest(KindFeedback, []byte(`{
		"progress": {"topic": "Loops", "completedLessons": 3, "totalLessons": 8},
		"performance": {"score": 72, "timeSpentMinutes": 40, "attemptsCount": 2},
		"learningStyle": "AUDITORY"
	}`))
	require.NoError(t, err)

	fb, ok := req.(*FeedbackRequest)
	require.True(t, ok)
	assert.Equal(t, 3, *fb.Progress.CompletedLessons)
	assert.Equal(t, Auditory, fb.LearningStyle)

	_, err = ParseRequest(KindFeedback, []byte(`{"progress": {"topic": " ", "completedLessons": -1}}`))
	ve := validationError(t, err)
	for _, field := range []string{"progress.topic", "progress.completedLessons", "performance", "learningStyle"} {
		assert.True(t, ve.HasField(field), "missing violation for %s in %v", field, ve.Fields)
	}
}

func TestParseRequest_NotAnObject(t *testing.T) {
	for _, body := range []string{`[]`, `"lesson"`, `{"topic":`} {
		_, err := ParseRequest(KindLesson, []byte(body))
		ve := validationError(t, err)
		require.Len(t, ve.Fields, 1, "body %s", body)
		assert.Empty(t, ve.Fields[0].Field, "body %s", body)
	}
}

func TestParseRequest_UnknownKind(t *testing.T) {
	_, err := ParseRequest(Kind("essay"), []byte(`{}`))
	require.Error(t, err)
	var ve *ValidationError
	assert.False(t, errors.As(err, &ve))
}

func TestValidate_NilRequest(t *testing.T) {
	var lesson *LessonRequest
	assert.ErrorIs(t, Validate(lesson), ErrInvariant)
	assert.ErrorIs(t, Validate(nil), ErrInvariant)
}

func TestPathRequestDefaults(t *testing.T) {
	assert.Equal(t, DefaultDurationWeeks, (&PathRequest{}).Weeks())
	weeks := 4
	assert.Equal(t, 4, (&PathRequest{DurationWeeks: &weeks}).Weeks())
	assert.Equal(t, DefaultQuizCount, (&QuizRequest{}).Questions())
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{
		"lesson":     KindLesson,
		"path":       KindPath,
		"adapt":      KindAdaptation,
		"adaptation": KindAdaptation,
		"quiz":       KindQuiz,
	} {
		got, err := ParseKind(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseKind("essay")
	assert.Error(t, err)
}

func TestDifficultyRank(t *testing.T) {
	assert.Less(t, Beginner.Rank(), Intermediate.Rank())
	assert.Less(t, Intermediate.Rank(), Advanced.Rank())
	assert.Less(t, Advanced.Rank(), Expert.Rank())
	assert.Equal(t, 0, Difficulty("NOVICE").Rank())
}
