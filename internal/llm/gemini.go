package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// geminiModels maps friendly names to Gemini model IDs.
var geminiModels = map[string]string{
	"gemini-flash": "gemini-2.0-flash",
	"gemini-pro":   "gemini-2.5-pro",
}

// GeminiProvider implements Provider using the Google Gemini SDK. It issues
// generateContent with a single user part holding the prompt.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	return newGeminiProvider(ctx, cfg, nil)
}

func newGeminiProvider(ctx context.Context, cfg GeminiConfig, httpClient *http.Client) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		version := cfg.APIVersion
		if version == "" {
			version = "v1beta"
		}
		cc.HTTPOptions = genai.HTTPOptions{
			BaseURL:    cfg.BaseURL,
			APIVersion: version,
		}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		model:  resolveModel(cfg.Model, geminiModels),
	}, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Envelope, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.Temperature > 0 {
		temp := float32(req.Temperature)
		config.Temperature = &temp
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: req.Prompt}},
	}}

	result, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return nil, mapGeminiError(err)
	}
	if result == nil {
		return nil, upstream("gemini", 0, "empty response envelope", nil)
	}

	return geminiEnvelope(result, p.model), nil
}

func (p *GeminiProvider) ModelID() string {
	return p.model
}

// geminiEnvelope copies the SDK response into the provider-neutral envelope.
func geminiEnvelope(result *genai.GenerateContentResponse, model string) *Envelope {
	env := &Envelope{ModelVersion: result.ModelVersion}
	if env.ModelVersion == "" {
		env.ModelVersion = model
	}

	for _, c := range result.Candidates {
		if c == nil {
			continue
		}
		cand := Candidate{FinishReason: string(c.FinishReason)}
		if c.Content != nil {
			content := &Content{Role: c.Content.Role}
			for _, part := range c.Content.Parts {
				if part == nil || part.Thought {
					continue
				}
				content.Parts = append(content.Parts, Part{Text: part.Text})
			}
			cand.Content = content
		}
		env.Candidates = append(env.Candidates, cand)
	}

	if result.UsageMetadata != nil {
		env.UsageMetadata = &UsageMetadata{
			PromptTokenCount:     int(result.UsageMetadata.PromptTokenCount),
			CandidatesTokenCount: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokenCount:      int(result.UsageMetadata.TotalTokenCount),
		}
	}
	return env
}

func mapGeminiError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return upstream("gemini", 0, "", err)
	}
	if code, msg, ok := geminiAPIError(err); ok {
		return upstream("gemini", code, msg, err)
	}
	return upstream("gemini", 0, "", err)
}

// geminiAPIError walks the error chain for the SDK's APIError. A type switch
// on any is used so either value or pointer form matches.
func geminiAPIError(err error) (int, string, bool) {
	for cur := err; cur != nil; cur = errors.Unwrap(cur) {
		switch e := any(cur).(type) {
		case genai.APIError:
			return e.Code, e.Message, true
		case *genai.APIError:
			return e.Code, e.Message, true
		}
	}
	return 0, "", false
}
