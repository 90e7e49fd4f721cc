package llm

import "context"

// Provider is a single-shot chat completion constrained to JSON output.
type Provider interface {
	GenerateJSON(ctx context.Context, system, user string) (string, error)
	Close() error
}
