package llm

import "context"

type purposeKey struct{}

// WithPurpose labels the provider calls made with ctx, e.g. "lesson" or
// "adaptation". The label ends up on the recorded request event.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
