package contentgen

func ptr[T any](v T) *T { return &v }

func recursionLesson() *LessonRequest {
	return &LessonRequest{
		Topic:           "Recursion",
		Difficulty:      Beginner,
		LearningStyle:   Visual,
		DurationMinutes: ptr(30.0),
	}
}

func goPath() *PathRequest {
	return &PathRequest{
		UserID:        "user_42",
		Topic:         "Go",
		CurrentLevel:  Intermediate,
		LearningStyle: Kinesthetic,
		Goals:         []string{"build services", "write tests"},
		WeeklyHours:   ptr(6.0),
	}
}

func loopsAdaptation(score float64, attempts int) *AdaptationRequest {
	return &AdaptationRequest{
		CurrentContent: &ContentSnapshot{
			Title:      "Loops",
			Content:    "A for loop repeats a block.",
			Difficulty: Beginner,
		},
		TargetDifficulty: Intermediate,
		Performance: &PerformanceSnapshot{
			Score:            ptr(score),
			TimeSpentMinutes: ptr(12.5),
			AttemptsCount:    ptr(attempts),
			StrugglingAreas:  []string{"off-by-one"},
		},
		LearningStyle: Reading,
	}
}

func loopsFeedback() *FeedbackRequest {
	return &FeedbackRequest{
		Progress: &ProgressSnapshot{
			Topic:            "Loops",
			CompletedLessons: ptr(3),
			TotalLessons:     ptr(8),
			MasteredTopics:   []string{"for loops"},
		},
		Performance: &PerformanceSnapshot{
			Score:            ptr(72.0),
			TimeSpentMinutes: ptr(40.0),
			AttemptsCount:    ptr(2),
			StrongAreas:      []string{"iteration"},
		},
		LearningStyle: Kinesthetic,
	}
}

const validFeedbackJSON = `{
  "feedback": "You are making steady progress with loops.",
  "strengths": ["iteration"],
  "improvementAreas": ["loop bounds"],
  "recommendations": ["Trace a loop by hand"],
  "encouragement": "Keep going!",
  "nextSteps": ["Finish lesson 4", "Try the nested loops exercise"]
}`

func goQuiz() *QuizRequest {
	return &QuizRequest{Topic: "Go channels", Difficulty: Advanced, Count: ptr(2)}
}

const validLessonJSON = `{
  "title": "Intro to Recursion",
  "description": "Functions that call themselves.",
  "content": {
    "introduction": "Recursion solves a problem by solving smaller copies of it.",
    "mainContent": [
      {"type": "text", "title": "Base case", "content": "Every recursion needs a base case {stop}."},
      {"type": "example", "content": "func fact(n int) int { if n == 0 { return 1 }; return n * fact(n-1) }"}
    ],
    "summary": "Base case plus recursive step.",
    "keyTakeaways": ["Always define a base case", "Shrink the input"]
  },
  "estimatedMinutes": 30,
  "difficulty": "BEGINNER"
}`

const validPathJSON = `{
  "title": "Go for Services",
  "description": "From syntax to production services.",
  "estimatedHours": 72,
  "difficulty": "INTERMEDIATE",
  "milestones": [
    {"title": "Concurrency", "description": "Goroutines and channels", "topics": ["goroutines", "select"], "estimatedHours": 12, "week": 1}
  ]
}`

const validAdaptationJSON = `{
  "adaptedContent": {
    "title": "Loops, step by step",
    "content": "Start from a counter...",
    "difficulty": "INTERMEDIATE",
    "adaptations": [{"type": "support", "description": "Added worked examples"}]
  },
  "recommendations": {"nextSteps": ["Practice off-by-one cases"]},
  "performanceInsights": {"analysis": "Boundary errors dominate.", "confidenceLevel": "medium"},
  "adaptationReason": "Score in the support band."
}`

const validQuizJSON = `[
  {
    "question": "What does close(ch) do?",
    "type": "multiple_choice",
    "options": ["Deletes ch", "Marks ch closed", "Blocks", "Panics"],
    "correctAnswer": "Marks ch closed",
    "explanation": "Receivers drain remaining values then see the zero value.",
    "difficulty": "ADVANCED"
  },
  {
    "question": "Select the blocking operations",
    "type": "drag_drop",
    "correctAnswer": ["send on unbuffered", "receive on empty"],
    "explanation": "Both wait for a partner.",
    "difficulty": "ADVANCED",
    "tags": ["channels"]
  }
]`
