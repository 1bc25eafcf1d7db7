package contentgen

import (
	"fmt"
	"strconv"
	"strings"
)

// jsonOnlyInstruction closes every compiled prompt.
const jsonOnlyInstruction = "Return only valid JSON without any markdown formatting."

// CompilePrompt renders req into a single prompt string. strategy is only
// read for adaptation requests; when empty it is derived from the
// request's performance. The output depends on nothing but its arguments.
func CompilePrompt(req Request, strategy AdaptationStrategy) (string, error) {
	if err := Validate(req); err != nil {
		return "", err
	}

	var b strings.Builder
	switch r := req.(type) {
	case *LessonRequest:
		writeLessonPrompt(&b, r)
	case *PathRequest:
		writePathPrompt(&b, r)
	case *AdaptationRequest:
		if strategy == "" {
			strategy = StrategyFor(r)
		}
		writeAdaptationPrompt(&b, r, strategy)
	case *QuizRequest:
		writeQuizPrompt(&b, r)
	case *FeedbackRequest:
		writeFeedbackPrompt(&b, r)
	default:
		return "", fmt.Errorf("%w: cannot compile prompt for %T", ErrInvariant, req)
	}
	b.WriteString("\n")
	b.WriteString(jsonOnlyInstruction)
	return b.String(), nil
}

var lessonStyleGuidance = map[LearningStyle]string{
	Visual:      "Include diagrams, charts, visual examples and step-by-step illustrations.",
	Auditory:    "Include spoken-style explanations, discussion prompts, verbal examples and sound-based mnemonics.",
	Kinesthetic: "Include hands-on exercises, interactive elements and practical applications.",
	Reading:     "Include detailed text, written examples and comprehensive explanations.",
}

var pathStyleGuidance = map[LearningStyle]string{
	Visual:      "Favor milestones built around diagrams, videos and visual projects.",
	Auditory:    "Favor lectures, podcasts, discussions and explaining concepts out loud.",
	Kinesthetic: "Favor hands-on projects, labs and build-as-you-learn milestones.",
	Reading:     "Favor articles, books, documentation and written exercises.",
}

var adaptationStyleGuidance = map[LearningStyle]string{
	Visual:      "Add diagrams, charts, visual organizers and color coding.",
	Auditory:    "Add verbal explanations, discussion points and audio elements.",
	Kinesthetic: "Add hands-on activities, interactive elements and movement.",
	Reading:     "Provide detailed text, written instructions and comprehensive notes.",
}

var strategyGuidance = map[AdaptationStrategy][]string{
	IncreaseDifficulty: {
		"Add more complex concepts and examples",
		"Introduce advanced applications",
		"Reduce scaffolding and hints",
		"Add challenging exercises",
	},
	MaintainWithEnrichment: {
		"Keep the current difficulty level",
		"Add interesting extensions and applications",
		"Provide optional advanced topics",
		"Include real-world examples",
	},
	ProvideSupport: {
		"Add more explanations and examples",
		"Include additional practice opportunities",
		"Provide more hints and guidance",
		"Break down complex concepts",
	},
	SimplifyAndReinforce: {
		"Reduce complexity and cognitive load",
		"Add more scaffolding and step-by-step guidance",
		"Include a review of prerequisites",
		"Provide multiple practice opportunities",
		"Use simpler language and examples",
	},
	Maintain: {
		"Keep the current difficulty and structure",
		"Clarify any passages that were hard to follow",
		"Add a short recap of the key points",
	},
}

const lessonShape = `{
  "title": "Lesson title",
  "description": "Brief lesson description",
  "content": {
    "introduction": "Engaging introduction to the topic",
    "mainContent": [
      {
        "type": "text|example|exercise|tip|quiz",
        "title": "Section title",
        "content": "Section content",
        "metadata": {
          "difficulty": "easy|medium|hard",
          "estimatedMinutes": number,
          "interactionType": "read|practice|solve|answer"
        }
      }
    ],
    "summary": "Key points summary",
    "keyTakeaways": ["takeaway1", "takeaway2", "takeaway3"]
  },
  "estimatedMinutes": %s,
  "difficulty": "%s",
  "prerequisites": ["prerequisite1", "prerequisite2"],
  "learningObjectives": ["objective1", "objective2", "objective3"],
  "exercises": [
    {
      "type": "multiple_choice|fill_blank|code|drag_drop",
      "question": "Exercise question",
      "options": ["option1", "option2", "option3", "option4"],
      "correctAnswer": "correct answer or option index",
      "explanation": "Why this is correct",
      "hints": ["hint1", "hint2"]
    }
  ],
  "resources": [
    {
      "type": "article|video|documentation|tool",
      "title": "Resource title",
      "url": "https://example.com",
      "description": "Resource description"
    }
  ]
}`

func writeLessonPrompt(b *strings.Builder, r *LessonRequest) {
	lessonType := r.LessonType
	if lessonType == "" {
		lessonType = LessonTheory
	}
	minutes := num(*r.DurationMinutes)

	b.WriteString("Create an interactive lesson for the following requirements:\n\n")
	fmt.Fprintf(b, "Topic: %s\n", r.Topic)
	fmt.Fprintf(b, "Difficulty: %s\n", r.Difficulty)
	fmt.Fprintf(b, "Learning Style: %s\n", r.LearningStyle)
	fmt.Fprintf(b, "Lesson Type: %s\n", lessonType)
	fmt.Fprintf(b, "Duration: %s minutes\n", minutes)
	if uc := r.UserContext; uc != nil {
		writeList(b, "Previous Lessons", uc.PreviousLessons)
		writeList(b, "User Strengths", uc.Strengths)
		writeList(b, "Areas to Focus", uc.Weaknesses)
		writeList(b, "Preferences", uc.Preferences)
	}

	b.WriteString("\nGenerate a comprehensive lesson with exactly this JSON structure:\n")
	fmt.Fprintf(b, lessonShape, minutes, r.Difficulty)
	b.WriteString("\n\n")

	fmt.Fprintf(b, "Tailor the lesson for %s learners: %s\n\n", r.LearningStyle, lessonStyleGuidance[r.LearningStyle])

	b.WriteString("Make sure the content is:\n")
	fmt.Fprintf(b, "1. Appropriate for %s level\n", r.Difficulty)
	fmt.Fprintf(b, "2. Completable in approximately %s minutes\n", minutes)
	b.WriteString("3. Interactive and engaging\n")
	b.WriteString("4. Rich in practical examples and exercises\n")
	b.WriteString("5. Progressive in difficulty within the lesson\n")
}

const pathShape = `{
  "title": "Learning path title",
  "description": "Brief description of the learning journey",
  "estimatedHours": number,
  "difficulty": "BEGINNER|INTERMEDIATE|ADVANCED|EXPERT",
  "milestones": [
    {
      "title": "Milestone title",
      "description": "What will be learned",
      "topics": ["topic1", "topic2", "topic3"],
      "estimatedHours": number,
      "week": number
    }
  ],
  "prerequisites": ["prerequisite1", "prerequisite2"],
  "learningOutcomes": ["outcome1", "outcome2", "outcome3"],
  "resources": [
    {
      "type": "lesson|exercise|project|quiz",
      "title": "Resource title",
      "description": "Resource description",
      "estimatedMinutes": number
    }
  ]
}`

func writePathPrompt(b *strings.Builder, r *PathRequest) {
	goals := strings.Join(r.Goals, ", ")
	hours := num(*r.WeeklyHours)

	b.WriteString("Create a comprehensive learning path for the following requirements:\n\n")
	fmt.Fprintf(b, "Topic: %s\n", r.Topic)
	fmt.Fprintf(b, "Current Level: %s\n", r.CurrentLevel)
	fmt.Fprintf(b, "Learning Style: %s\n", r.LearningStyle)
	fmt.Fprintf(b, "Goals: %s\n", goals)
	fmt.Fprintf(b, "Time Available: %s hours per week\n", hours)
	fmt.Fprintf(b, "Duration: %d weeks\n", r.Weeks())

	b.WriteString("\nGenerate a structured learning path with exactly this JSON structure:\n")
	b.WriteString(pathShape)
	b.WriteString("\n\n")

	fmt.Fprintf(b, "Learning style guidance for %s learners: %s\n\n", r.LearningStyle, pathStyleGuidance[r.LearningStyle])

	b.WriteString("Make sure the path is:\n")
	fmt.Fprintf(b, "1. Tailored to the %s learning style\n", r.LearningStyle)
	fmt.Fprintf(b, "2. Appropriate for %s level\n", r.CurrentLevel)
	fmt.Fprintf(b, "3. Achievable within %s hours per week over %d weeks\n", hours, r.Weeks())
	fmt.Fprintf(b, "4. Focused on achieving: %s\n", goals)
	b.WriteString("5. Progressive and well-structured\n")
}

const adaptationShape = `{
  "adaptedContent": {
    "title": "Updated title if needed",
    "content": "Adapted content based on performance",
    "difficulty": "%s",
    "adaptations": [
      {
        "type": "difficulty|style|pace|support",
        "description": "What was changed and why",
        "originalValue": "previous state",
        "newValue": "new state"
      }
    ]
  },
  "recommendations": {
    "nextSteps": ["recommendation1", "recommendation2"],
    "additionalResources": [
      {
        "type": "practice|review|advanced|support",
        "title": "Resource title",
        "description": "Why this resource is recommended",
        "estimatedMinutes": number
      }
    ],
    "focusAreas": ["area1", "area2"],
    "strengthsToLeverage": ["strength1", "strength2"]
  },
  "performanceInsights": {
    "analysis": "Analysis of user performance",
    "improvementAreas": ["area1", "area2"],
    "successIndicators": ["indicator1", "indicator2"],
    "confidenceLevel": "low|medium|high"
  },
  "adaptationReason": "Explanation of why this adaptation was made"
}`

func writeAdaptationPrompt(b *strings.Builder, r *AdaptationRequest, strategy AdaptationStrategy) {
	c := r.CurrentContent
	p := r.Performance

	b.WriteString("Adapt the following learning content based on user performance and requirements:\n\n")

	b.WriteString("CURRENT CONTENT:\n")
	fmt.Fprintf(b, "Title: %s\n", c.Title)
	fmt.Fprintf(b, "Current Difficulty: %s\n", c.Difficulty)
	if c.Type != "" {
		fmt.Fprintf(b, "Content Type: %s\n", c.Type)
	}
	fmt.Fprintf(b, "Content: %s\n\n", c.Content)

	b.WriteString("USER PERFORMANCE:\n")
	fmt.Fprintf(b, "Score: %s%%\n", num(*p.Score))
	fmt.Fprintf(b, "Time Spent: %s minutes\n", num(*p.TimeSpentMinutes))
	fmt.Fprintf(b, "Attempts: %d\n", *p.AttemptsCount)
	fmt.Fprintf(b, "Struggling Areas: %s\n", joinOrNone(p.StrugglingAreas))
	fmt.Fprintf(b, "Strong Areas: %s\n\n", joinOrNone(p.StrongAreas))

	b.WriteString("ADAPTATION REQUIREMENTS:\n")
	fmt.Fprintf(b, "Target Difficulty: %s\n", r.TargetDifficulty)
	fmt.Fprintf(b, "Learning Style: %s\n", r.LearningStyle)
	if r.AdaptationType != "" {
		fmt.Fprintf(b, "Adaptation Type: %s\n", r.AdaptationType)
	}
	fmt.Fprintf(b, "Adaptation Strategy: %s\n", strategy)

	b.WriteString("\nGenerate adapted content with exactly this JSON structure:\n")
	fmt.Fprintf(b, adaptationShape, r.TargetDifficulty)
	b.WriteString("\n\n")

	fmt.Fprintf(b, "Adaptation guidelines for strategy %s:\n", strategy)
	for _, line := range strategyGuidance[strategy] {
		fmt.Fprintf(b, "- %s\n", line)
	}
	b.WriteString("\n")

	fmt.Fprintf(b, "Learning style adaptations for %s learners: %s\n", r.LearningStyle, adaptationStyleGuidance[r.LearningStyle])
}

const quizShape = `[
  {
    "question": "Question text",
    "type": "multiple_choice|true_false|fill_blank|drag_drop",
    "options": ["option1", "option2", "option3", "option4"],
    "correctAnswer": "answer" or ["answer1", "answer2"],
    "explanation": "Why this is correct",
    "difficulty": "%s",
    "tags": ["tag1", "tag2"]
  }
]`

func writeQuizPrompt(b *strings.Builder, r *QuizRequest) {
	fmt.Fprintf(b, "Generate %d quiz questions about %q for %s level.\n\n", r.Questions(), r.Topic, r.Difficulty)

	b.WriteString("Requirements:\n")
	b.WriteString("- Mix question types (multiple choice, true/false, fill in the blank)\n")
	b.WriteString("- Include a clear explanation for every correct answer\n")
	b.WriteString("- Make questions challenging but fair\n")
	b.WriteString("- Cover different aspects of the topic\n")
	b.WriteString("- Provide options only for multiple_choice and drag_drop questions\n")

	b.WriteString("\nReturn a JSON array of questions with exactly this structure:\n")
	fmt.Fprintf(b, quizShape, r.Difficulty)
	b.WriteString("\n")
}

var feedbackStyleGuidance = map[LearningStyle]string{
	Visual:      "Suggest charts, mind maps and visual progress trackers.",
	Auditory:    "Suggest talking through concepts, study groups and recorded explanations.",
	Kinesthetic: "Suggest hands-on practice, small projects and learning by doing.",
	Reading:     "Suggest notes, summaries and further reading.",
}

const feedbackShape = `{
  "feedback": "Two or three sentences of personalized feedback",
  "strengths": ["strength1", "strength2"],
  "improvementAreas": ["area1", "area2"],
  "recommendations": ["recommendation1", "recommendation2"],
  "encouragement": "A short motivational message",
  "nextSteps": ["step1", "step2", "step3"]
}`

func writeFeedbackPrompt(b *strings.Builder, r *FeedbackRequest) {
	pr := r.Progress
	p := r.Performance

	b.WriteString("Analyze this learner's progress and provide personalized feedback.\n\n")

	b.WriteString("PROGRESS:\n")
	fmt.Fprintf(b, "Topic: %s\n", pr.Topic)
	if pr.TotalLessons != nil {
		fmt.Fprintf(b, "Completed Lessons: %d of %d\n", *pr.CompletedLessons, *pr.TotalLessons)
	} else {
		fmt.Fprintf(b, "Completed Lessons: %d\n", *pr.CompletedLessons)
	}
	if pr.StreakDays != nil {
		fmt.Fprintf(b, "Current Streak: %d days\n", *pr.StreakDays)
	}
	fmt.Fprintf(b, "Mastered Topics: %s\n\n", joinOrNone(pr.MasteredTopics))

	b.WriteString("PERFORMANCE:\n")
	fmt.Fprintf(b, "Score: %s%%\n", num(*p.Score))
	fmt.Fprintf(b, "Time Spent: %s minutes\n", num(*p.TimeSpentMinutes))
	fmt.Fprintf(b, "Attempts: %d\n", *p.AttemptsCount)
	fmt.Fprintf(b, "Struggling Areas: %s\n", joinOrNone(p.StrugglingAreas))
	fmt.Fprintf(b, "Strong Areas: %s\n\n", joinOrNone(p.StrongAreas))

	fmt.Fprintf(b, "Learning Style: %s\n\n", r.LearningStyle)

	b.WriteString("Provide:\n")
	b.WriteString("- Specific strengths and areas for improvement\n")
	b.WriteString("- Personalized recommendations\n")
	b.WriteString("- Motivational encouragement\n")
	b.WriteString("- Next steps suggestions\n")
	b.WriteString("Keep it concise, positive and actionable.\n")
	fmt.Fprintf(b, "For %s learners: %s\n", r.LearningStyle, feedbackStyleGuidance[r.LearningStyle])

	b.WriteString("\nReturn feedback with exactly this JSON structure:\n")
	b.WriteString(feedbackShape)
	b.WriteString("\n")
}

func writeList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, strings.Join(items, ", "))
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None specified"
	}
	return strings.Join(items, ", ")
}

// num formats a number without a trailing ".0" for whole values.
func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
