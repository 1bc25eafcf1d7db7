package contentgen

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2025, 3, 4, 5, 6, 7, 890_000_000, time.UTC)

func decodeResult(t *testing.T, r *GenerationResult) map[string]any {
	t.Helper()
	body, err := json.Marshal(r)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestAssemble_LessonFlat(t *testing.T) {
	payload, err := ParseJSON(validLessonJSON)
	require.NoError(t, err)

	r, err := assemble(KindLesson, payload, EchoFor(recursionLesson(), ""), "lesson_1", fixedTime)
	require.NoError(t, err)

	out := decodeResult(t, r)
	assert.Equal(t, "Intro to Recursion", out["title"])
	assert.Equal(t, "lesson_1", out["id"])
	assert.Equal(t, "2025-03-04T05:06:07.890Z", out["createdAt"])
	assert.Equal(t, map[string]any{
		"topic":           "Recursion",
		"difficulty":      "BEGINNER",
		"learningStyle":   "VISUAL",
		"lessonType":      "THEORY",
		"durationMinutes": 30.0,
	}, out["requestParams"])
}

func TestAssemble_AdaptationExtras(t *testing.T) {
	payload, err := ParseJSON(validAdaptationJSON)
	require.NoError(t, err)

	req := loopsAdaptation(60, 2)
	r, err := assemble(KindAdaptation, payload, EchoFor(req, ProvideSupport), "adaptation_1", fixedTime)
	require.NoError(t, err)

	out := decodeResult(t, r)
	assert.Equal(t, "PROVIDE_SUPPORT", out["adaptationStrategy"])
	assert.Equal(t, "Loops", out["originalContent"].(map[string]any)["title"])
	assert.Equal(t, 60.0, out["userPerformance"].(map[string]any)["score"])
	assert.Equal(t, map[string]any{
		"targetDifficulty": "INTERMEDIATE",
		"learningStyle":    "READING",
	}, out["requestParams"])
}

func TestAssemble_PathUserID(t *testing.T) {
	payload, err := ParseJSON(validPathJSON)
	require.NoError(t, err)

	req := goPath()
	r, err := assemble(KindPath, payload, EchoFor(req, ""), "path_1", fixedTime)
	require.NoError(t, err)
	out := decodeResult(t, r)
	assert.Equal(t, "user_42", out["userId"])
	assert.Equal(t, 12.0, out["requestParams"].(map[string]any)["durationWeeks"])

	req.UserID = ""
	r, err = assemble(KindPath, payload, EchoFor(req, ""), "path_2", fixedTime)
	require.NoError(t, err)
	_, present := decodeResult(t, r)["userId"]
	assert.False(t, present)
}

func TestAssemble_QuizWrapped(t *testing.T) {
	payload, err := ParseJSON(validQuizJSON)
	require.NoError(t, err)

	r, err := assemble(KindQuiz, payload, EchoFor(goQuiz(), ""), "quiz_1", fixedTime)
	require.NoError(t, err)

	out := decodeResult(t, r)
	assert.Len(t, out["questions"], 2)
	assert.Equal(t, 2.0, out["requestParams"].(map[string]any)["count"])
}

func TestAssemble_IsolatedFromRequestChanges(t *testing.T) {
	payload, err := ParseJSON(validAdaptationJSON)
	require.NoError(t, err)

	req := loopsAdaptation(60, 2)
	r, err := assemble(KindAdaptation, payload, EchoFor(req, ProvideSupport), "adaptation_1", fixedTime)
	require.NoError(t, err)
	before := decodeResult(t, r)

	req.CurrentContent.Title = "Changed"
	*req.Performance.Score = 5
	req.Performance.StrugglingAreas[0] = "changed"

	assert.Equal(t, before, decodeResult(t, r))

	path := goPath()
	pr, err := assemble(KindPath, map[string]any{}, EchoFor(path, ""), "path_1", fixedTime)
	require.NoError(t, err)
	path.Goals[0] = "changed"
	assert.Equal(t, []string{"build services", "write tests"}, pr.Echo["goals"])
}

func TestAssemble_FeedbackEcho(t *testing.T) {
	payload, err := ParseJSON(validFeedbackJSON)
	require.NoError(t, err)

	r, err := assemble(KindFeedback, payload, EchoFor(loopsFeedback(), ""), "feedback_1", fixedTime)
	require.NoError(t, err)

	out := decodeResult(t, r)
	params := out["requestParams"].(map[string]any)
	assert.Equal(t, "KINESTHETIC", params["learningStyle"])
	assert.Equal(t, "Loops", params["progress"].(map[string]any)["topic"])
	assert.Equal(t, 72.0, params["performance"].(map[string]any)["score"])
	assert.Equal(t, []any{"Finish lesson 4", "Try the nested loops exercise"}, out["nextSteps"])
}

func TestAssemble_Collision(t *testing.T) {
	payload := map[string]any{"title": "t", "createdAt": "yesterday"}
	_, err := assemble(KindLesson, payload, Echo{}, "lesson_1", fixedTime)
	assert.ErrorIs(t, err, ErrInvariant)

	_, err = assemble(KindLesson, []any{}, Echo{}, "lesson_1", fixedTime)
	assert.ErrorIs(t, err, ErrInvariant)

	_, err = assemble(KindQuiz, map[string]any{}, Echo{}, "quiz_1", fixedTime)
	assert.ErrorIs(t, err, ErrInvariant)
}

func TestAssemble_FreshIdentity(t *testing.T) {
	payload, err := ParseJSON(validLessonJSON)
	require.NoError(t, err)

	a, err := Assemble(KindLesson, payload, Echo{})
	require.NoError(t, err)
	b, err := Assemble(KindLesson, payload, Echo{})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a.ID, "lesson_"))
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, time.UTC, a.CreatedAt.Location())
	assert.Equal(t, map[string]any{}, decodeResult(t, a)["requestParams"])
}

func TestResultJSONNoHTMLEscape(t *testing.T) {
	r, err := assemble(KindLesson, map[string]any{"title": "a < b && c"}, Echo{}, "lesson_1", fixedTime)
	require.NoError(t, err)
	body, err := r.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(body), `"title":"a < b && c"`)
}
