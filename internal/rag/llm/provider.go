package llm

import "context"

// Provider turns a fully rendered prompt into model text.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
