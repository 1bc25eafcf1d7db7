package contentgen

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/tutorforge/internal/llm"
	"github.com/abhisek/tutorforge/internal/logging"
)

// maxLoggedText bounds the raw model text attached to extraction failures
// in log lines.
const maxLoggedText = 4 << 10

// Generator runs the generation pipeline. It holds no per-request state
// and is safe for concurrent use.
type Generator struct {
	provider llm.Provider
	cfg      Config
	log      *logging.Logger

	now   func() time.Time
	newID func(Kind) string
}

// NewGenerator creates a Generator. log may be nil.
func NewGenerator(provider llm.Provider, cfg Config, log *logging.Logger) *Generator {
	if log == nil {
		log = logging.NewNop()
	}
	return &Generator{
		provider: provider,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
		newID:    NewResultID,
	}
}

// Generate parses raw as a request of kind and runs it.
func (g *Generator) Generate(ctx context.Context, kind Kind, raw []byte) (*GenerationResult, error) {
	req, err := ParseRequest(kind, raw)
	if err != nil {
		return nil, err
	}
	return g.GenerateRequest(ctx, req)
}

// GenerateRequest validates req, compiles its prompt, calls the provider and
// turns the reply into a GenerationResult. Any failure aborts the request;
// nothing is partially returned.
func (g *Generator) GenerateRequest(ctx context.Context, req Request) (*GenerationResult, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	kind := req.Kind()
	strategy := StrategyFor(req)

	prompt, err := CompilePrompt(req, strategy)
	if err != nil {
		return nil, err
	}

	params := g.cfg.For(kind)
	ctx = llm.WithPurpose(ctx, string(kind))
	env, err := g.provider.Generate(ctx, llm.Request{
		Prompt:      prompt,
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%s generation: %w", kind, err)
	}

	payload, err := Extract(kind, env)
	if err != nil {
		g.logExtractionFailure(kind, err)
		return nil, err
	}

	result, err := assemble(kind, payload, EchoFor(req, strategy), g.newID(kind), g.now())
	if err != nil {
		return nil, err
	}

	g.log.Debug("content generated", "kind", kind, "id", result.ID, "strategy", strategy)
	return result, nil
}

func (g *Generator) logExtractionFailure(kind Kind, err error) {
	kv := []interface{}{"kind", kind, "error", err}
	if raw, ok := RawText(err); ok {
		if len(raw) > maxLoggedText {
			raw = raw[:maxLoggedText]
		}
		kv = append(kv, "raw", raw)
	}
	g.log.Warn("failed to extract generated content", kv...)
}
