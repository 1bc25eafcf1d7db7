package contentgen

import (
	"strings"
	"testing"
)

func TestCompilePrompt_Lesson(t *testing.T) {
	prompt, err := CompilePrompt(recursionLesson(), "")
	if err != nil {
		t.Fatalf("CompilePrompt: %v", err)
	}

	for _, want := range []string{
		"Topic: Recursion",
		"Difficulty: BEGINNER",
		"Learning Style: VISUAL",
		"Lesson Type: THEORY",
		"Duration: 30 minutes",
		`"estimatedMinutes": 30,`,
		`"difficulty": "BEGINNER",`,
		`"type": "text|example|exercise|tip|quiz"`,
		"diagrams",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("lesson prompt missing %q", want)
		}
	}
	if !strings.HasSuffix(prompt, "\n"+jsonOnlyInstruction) {
		t.Errorf("prompt must end with the JSON-only instruction, got tail %q", prompt[len(prompt)-80:])
	}
	if strings.Contains(prompt, "hands-on exercises") {
		t.Error("lesson prompt includes guidance for another learning style")
	}
}

func TestCompilePrompt_LessonUserContext(t *testing.T) {
	req := recursionLesson()
	req.LessonType = LessonPractice
	req.UserContext = &UserContext{Strengths: []string{"loops"}, Weaknesses: []string{"stack frames"}}

	prompt, err := CompilePrompt(req, "")
	if err != nil {
		t.Fatalf("CompilePrompt: %v", err)
	}
	for _, want := range []string{"Lesson Type: PRACTICE", "User Strengths: loops", "Areas to Focus: stack frames"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, "Previous Lessons") {
		t.Error("empty context lists must be omitted")
	}
}

func TestCompilePrompt_Path(t *testing.T) {
	prompt, err := CompilePrompt(goPath(), "")
	if err != nil {
		t.Fatalf("CompilePrompt: %v", err)
	}
	for _, want := range []string{
		"Current Level: INTERMEDIATE",
		"Goals: build services, write tests",
		"Time Available: 6 hours per week",
		"Duration: 12 weeks",
		`"milestones": [`,
		"hands-on projects",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("path prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, "user_42") {
		t.Error("user id must not reach the prompt")
	}
}

func TestCompilePrompt_AdaptationStrategy(t *testing.T) {
	tests := []struct {
		score    float64
		attempts int
		strategy AdaptationStrategy
		line     string
	}{
		{95, 1, IncreaseDifficulty, "Reduce scaffolding and hints"},
		{75, 5, MaintainWithEnrichment, "Provide optional advanced topics"},
		{60, 2, ProvideSupport, "Break down complex concepts"},
		{30, 1, SimplifyAndReinforce, "Use simpler language and examples"},
		{95, 3, Maintain, "Add a short recap of the key points"},
	}

	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			prompt, err := CompilePrompt(loopsAdaptation(tt.score, tt.attempts), "")
			if err != nil {
				t.Fatalf("CompilePrompt: %v", err)
			}
			if !strings.Contains(prompt, "Adaptation Strategy: "+string(tt.strategy)) {
				t.Errorf("prompt does not name strategy %s", tt.strategy)
			}
			if !strings.Contains(prompt, tt.line) {
				t.Errorf("prompt missing guidance %q", tt.line)
			}
			for other, lines := range strategyGuidance {
				if other == tt.strategy {
					continue
				}
				if strings.Contains(prompt, "- "+lines[len(lines)-1]+"\n") {
					t.Errorf("prompt includes guidance for %s", other)
				}
			}
		})
	}
}

func TestCompilePrompt_AdaptationFacts(t *testing.T) {
	prompt, err := CompilePrompt(loopsAdaptation(60, 2), ProvideSupport)
	if err != nil {
		t.Fatalf("CompilePrompt: %v", err)
	}
	for _, want := range []string{
		"Title: Loops",
		"Score: 60%",
		"Time Spent: 12.5 minutes",
		"Attempts: 2",
		"Struggling Areas: off-by-one",
		"Strong Areas: None specified",
		"Target Difficulty: INTERMEDIATE",
		`"difficulty": "INTERMEDIATE",`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("adaptation prompt missing %q", want)
		}
	}
}

func TestCompilePrompt_Quiz(t *testing.T) {
	prompt, err := CompilePrompt(goQuiz(), "")
	if err != nil {
		t.Fatalf("CompilePrompt: %v", err)
	}
	if !strings.Contains(prompt, `Generate 2 quiz questions about "Go channels" for ADVANCED level.`) {
		t.Errorf("quiz prompt header wrong:\n%s", prompt)
	}
	if !strings.HasSuffix(prompt, jsonOnlyInstruction) {
		t.Error("quiz prompt must end with the JSON-only instruction")
	}
}

func TestCompilePrompt_Feedback(t *testing.T) {
	prompt, err := CompilePrompt(loopsFeedback(), "")
	if err != nil {
		t.Fatalf("CompilePrompt: %v", err)
	}
	for _, want := range []string{
		"Topic: Loops",
		"Completed Lessons: 3 of 8",
		"Mastered Topics: for loops",
		"Score: 72%",
		"Strong Areas: iteration",
		"Learning Style: KINESTHETIC",
		"hands-on practice",
		`"nextSteps": ["step1", "step2", "step3"]`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("feedback prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, "Current Streak") {
		t.Error("unset streak must be omitted")
	}
	if !strings.HasSuffix(prompt, "\n"+jsonOnlyInstruction) {
		t.Error("feedback prompt must end with the JSON-only instruction")
	}
}

func TestCompilePrompt_Deterministic(t *testing.T) {
	reqs := []Request{recursionLesson(), goPath(), loopsAdaptation(60, 2), goQuiz()}
	for _, req := range reqs {
		first, err := CompilePrompt(req, "")
		if err != nil {
			t.Fatalf("CompilePrompt(%s): %v", req.Kind(), err)
		}
		for i := 0; i < 5; i++ {
			again, _ := CompilePrompt(req, "")
			if again != first {
				t.Fatalf("CompilePrompt(%s) is not deterministic", req.Kind())
			}
		}
	}
}

func TestCompilePrompt_RejectsInvalid(t *testing.T) {
	req := recursionLesson()
	req.Topic = ""
	if _, err := CompilePrompt(req, ""); err == nil {
		t.Fatal("expected a validation error for an empty topic")
	}
}
