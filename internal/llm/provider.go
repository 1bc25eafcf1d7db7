package llm

import (
	"context"
	"errors"
	"strings"
)

// ErrEmptyPrompt is returned when Generate is called without a prompt.
var ErrEmptyPrompt = errors.New("llm: prompt is empty")

// Provider is the transport abstraction for the generative-text service.
// It sends one prompt and returns the provider's raw envelope. It never
// looks at what the prompt asks for or what shape the answer should have.
type Provider interface {
	// Generate sends req.Prompt to the provider and returns its envelope.
	// Transport failures are returned as *UpstreamError.
	Generate(ctx context.Context, req Request) (*Envelope, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the provider.
type Request struct {
	// Prompt is the fully compiled instruction. Must be non-empty.
	Prompt string

	// MaxTokens caps the response length. Zero leaves the provider default.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64
}

func (r Request) validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return ErrEmptyPrompt
	}
	return nil
}

// Envelope is the provider response in the Gemini generateContent wire
// shape. Other providers translate their replies into the same shape so
// downstream extraction reads candidates[0].content.parts[0].text for all
// of them.
type Envelope struct {
	Candidates    []Candidate    `json:"candidates"`
	UsageMetadata *UsageMetadata `json:"usageMetadata,omitempty"`
	ModelVersion  string         `json:"modelVersion,omitempty"`
}

// Candidate is one generated alternative.
type Candidate struct {
	Content      *Content `json:"content,omitempty"`
	FinishReason string   `json:"finishReason,omitempty"`
}

// Content holds the parts of a generated message.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is a single text fragment.
type Part struct {
	Text string `json:"text"`
}

// UsageMetadata reports token counts in the provider's field names.
type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// Finish reasons normalized across providers.
const (
	FinishStop      = "STOP"
	FinishMaxTokens = "MAX_TOKENS"
	FinishOther     = "OTHER"
)

// NewTextEnvelope builds a single-candidate envelope around text.
func NewTextEnvelope(model, text, finishReason string, usage Usage) *Envelope {
	return &Envelope{
		Candidates: []Candidate{{
			Content: &Content{
				Role:  "model",
				Parts: []Part{{Text: text}},
			},
			FinishReason: finishReason,
		}},
		UsageMetadata: &UsageMetadata{
			PromptTokenCount:     usage.InputTokens,
			CandidatesTokenCount: usage.OutputTokens,
			TotalTokenCount:      usage.TotalTokens,
		},
		ModelVersion: model,
	}
}

// FirstText returns candidates[0].content.parts[0].text and whether it was
// present at all.
func (e *Envelope) FirstText() (string, bool) {
	if e == nil || len(e.Candidates) == 0 {
		return "", false
	}
	c := e.Candidates[0].Content
	if c == nil || len(c.Parts) == 0 {
		return "", false
	}
	return c.Parts[0].Text, true
}

// Usage returns token consumption in provider-neutral form.
func (e *Envelope) Usage() Usage {
	if e == nil || e.UsageMetadata == nil {
		return Usage{}
	}
	return Usage{
		InputTokens:  e.UsageMetadata.PromptTokenCount,
		OutputTokens: e.UsageMetadata.CandidatesTokenCount,
		TotalTokens:  e.UsageMetadata.TotalTokenCount,
	}
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
