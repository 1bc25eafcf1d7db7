package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/tutorforge/internal/logging"
	"github.com/abhisek/tutorforge/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with logging, retry and timeout middleware.
// eventRepo and log may be nil.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *logging.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return wrap(base, cfg, eventRepo, log), nil
}

// wrap applies the middleware chain: caller → timeout → retry → logging → base.
// Every attempt is logged; the deadline covers all attempts.
func wrap(base Provider, cfg Config, eventRepo store.EventRepo, log *logging.Logger) Provider {
	logged := WithLogging(base, cfg.Provider, eventRepo, log)
	retried := WithRetry(logged, cfg.Retry)
	return WithTimeout(retried, cfg.Timeout)
}
