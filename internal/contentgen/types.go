// Package contentgen turns learning-content requests into validated,
// structured generation results. A request is parsed and validated,
// compiled into a prompt, sent to an llm.Provider, and the JSON embedded in
// the model's free-form reply is extracted, checked against the output
// contract for its kind, and wrapped with an id, a timestamp and the echoed
// request parameters.
package contentgen

import "fmt"

// Kind identifies a request/result variant.
type Kind string

const (
	KindLesson     Kind = "lesson"
	KindPath       Kind = "path"
	KindAdaptation Kind = "adaptation"
	KindQuiz       Kind = "quiz"
	KindFeedback   Kind = "feedback"
)

// Kinds lists every supported kind in a stable order.
var Kinds = []Kind{KindLesson, KindPath, KindAdaptation, KindQuiz, KindFeedback}

// ParseKind maps a user-facing name to a Kind. "adapt" is accepted as a
// shorthand for adaptation.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "lesson":
		return KindLesson, nil
	case "path":
		return KindPath, nil
	case "adaptation", "adapt":
		return KindAdaptation, nil
	case "quiz":
		return KindQuiz, nil
	case "feedback":
		return KindFeedback, nil
	}
	return "", fmt.Errorf("unknown content kind %q (want lesson, path, adapt, quiz or feedback)", s)
}

// Difficulty is a totally ordered skill level.
type Difficulty string

const (
	Beginner     Difficulty = "BEGINNER"
	Intermediate Difficulty = "INTERMEDIATE"
	Advanced     Difficulty = "ADVANCED"
	Expert       Difficulty = "EXPERT"
)

// Rank returns the position of d in the ordering BEGINNER < INTERMEDIATE <
// ADVANCED < EXPERT, starting at 1. Unknown values rank 0.
func (d Difficulty) Rank() int {
	switch d {
	case Beginner:
		return 1
	case Intermediate:
		return 2
	case Advanced:
		return 3
	case Expert:
		return 4
	default:
		return 0
	}
}

// LearningStyle only affects which guidance text goes into a prompt.
type LearningStyle string

const (
	Visual      LearningStyle = "VISUAL"
	Auditory    LearningStyle = "AUDITORY"
	Kinesthetic LearningStyle = "KINESTHETIC"
	Reading     LearningStyle = "READING"
)

// LessonType is the flavor of a generated lesson.
type LessonType string

const (
	LessonTheory     LessonType = "THEORY"
	LessonPractice   LessonType = "PRACTICE"
	LessonProject    LessonType = "PROJECT"
	LessonAssessment LessonType = "ASSESSMENT"
)

// AdaptationType narrows what an adaptation should change.
type AdaptationType string

const (
	AdaptDifficulty    AdaptationType = "DIFFICULTY"
	AdaptStyle         AdaptationType = "STYLE"
	AdaptPace          AdaptationType = "PACE"
	AdaptComprehensive AdaptationType = "COMPREHENSIVE"
)

// AdaptationStrategy is derived from a performance snapshot and steers the
// adaptation prompt. It is never stored on its own.
type AdaptationStrategy string

const (
	IncreaseDifficulty     AdaptationStrategy = "INCREASE_DIFFICULTY"
	MaintainWithEnrichment AdaptationStrategy = "MAINTAIN_WITH_ENRICHMENT"
	ProvideSupport         AdaptationStrategy = "PROVIDE_SUPPORT"
	SimplifyAndReinforce   AdaptationStrategy = "SIMPLIFY_AND_REINFORCE"
	Maintain               AdaptationStrategy = "MAINTAIN"
)
