package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/tutorforge/internal/logging"
	"github.com/abhisek/tutorforge/internal/store"
)

// maxCapturedBody bounds the request/response text stored with each event.
const maxCapturedBody = 64 << 10

// LoggingProvider is a decorator that records every LLM request as an event
// and a structured log line.
type LoggingProvider struct {
	inner     Provider
	provider  string
	eventRepo store.EventRepo
	log       *logging.Logger
}

// WithLogging wraps a Provider with event logging. repo and log may be nil.
func WithLogging(p Provider, providerName string, repo store.EventRepo, log *logging.Logger) Provider {
	if log == nil {
		log = logging.NewNop()
	}
	return &LoggingProvider{inner: p, provider: providerName, eventRepo: repo, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Envelope, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	env, err := l.inner.Generate(ctx, req)

	latencyMs := time.Since(start).Milliseconds()

	data := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   latencyMs,
		Success:     err == nil,
		RequestBody: capBody(req.Prompt),
	}

	if env != nil {
		usage := env.Usage()
		data.InputTokens = usage.InputTokens
		data.OutputTokens = usage.OutputTokens
		if env.ModelVersion != "" {
			data.Model = env.ModelVersion
		}
		if text, ok := env.FirstText(); ok {
			data.ResponseBody = capBody(text)
		}
	}

	if err != nil {
		data.ErrorMessage = err.Error()
		l.log.Warn("llm request failed",
			"provider", data.Provider,
			"model", data.Model,
			"purpose", purpose,
			"latency_ms", latencyMs,
			"error", err,
		)
	} else {
		l.log.Info("llm request",
			"provider", data.Provider,
			"model", data.Model,
			"purpose", purpose,
			"latency_ms", latencyMs,
			"input_tokens", data.InputTokens,
			"output_tokens", data.OutputTokens,
		)
	}

	// Recording must never fail the request.
	if l.eventRepo != nil {
		if logErr := l.eventRepo.AppendLLMRequest(ctx, data); logErr != nil {
			l.log.Warn("failed to record llm request event", "error", logErr)
		}
	}

	return env, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

func capBody(s string) string {
	if len(s) <= maxCapturedBody {
		return s
	}
	return s[:maxCapturedBody] + fmt.Sprintf("\n[truncated %d bytes]", len(s)-maxCapturedBody)
}
