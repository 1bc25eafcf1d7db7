package contentgen

// Params are the provider settings for one kind of generation.
type Params struct {
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// Config holds generation settings per kind.
type Config struct {
	Lesson     Params `yaml:"lesson"`
	Path       Params `yaml:"path"`
	Adaptation Params `yaml:"adaptation"`
	Quiz       Params `yaml:"quiz"`
	Feedback   Params `yaml:"feedback"`
}

// DefaultConfig returns sensible defaults for content generation.
func DefaultConfig() Config {
	return Config{
		Lesson:     Params{MaxTokens: 8192, Temperature: 0.7},
		Path:       Params{MaxTokens: 8192, Temperature: 0.7},
		Adaptation: Params{MaxTokens: 8192, Temperature: 0.6},
		Quiz:       Params{MaxTokens: 4096, Temperature: 0.5},
		Feedback:   Params{MaxTokens: 2048, Temperature: 0.7},
	}
}

// For returns the settings for kind. Unknown kinds get the lesson settings.
func (c Config) For(k Kind) Params {
	switch k {
	case KindPath:
		return c.Path
	case KindAdaptation:
		return c.Adaptation
	case KindQuiz:
		return c.Quiz
	case KindFeedback:
		return c.Feedback
	default:
		return c.Lesson
	}
}
