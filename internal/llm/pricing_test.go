package llm

import (
	"math"
	"testing"
)

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		found bool
		input float64
	}{
		{"gemini-2.0-flash", true, 0.1},
		{"gemini-2.0-flash-001", true, 0.1},
		{"google/gemini-2.0-flash-001", true, 0.1},
		{"claude-haiku-4-5-20251001", true, 1},
		{"gpt-4o-mini", true, 0.15},
		{"mock", false, 0},
		{"gemini-2.0-flash-exp", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			c := LookupCost(tt.model)
			if (c != nil) != tt.found {
				t.Fatalf("LookupCost(%q) found = %v, want %v", tt.model, c != nil, tt.found)
			}
			if c != nil && c.InputPerMTok != tt.input {
				t.Errorf("input price = %v, want %v", c.InputPerMTok, tt.input)
			}
		})
	}
}

func TestModelCost_Cost(t *testing.T) {
	c := ModelCost{InputPerMTok: 0.1, OutputPerMTok: 0.4}
	got := c.Cost(1_000_000, 500_000)
	if math.Abs(got-0.3) > 1e-9 {
		t.Fatalf("Cost = %v, want 0.3", got)
	}
}
