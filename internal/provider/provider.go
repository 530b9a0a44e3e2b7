// Package provider abstracts the text-generation backends. Each adapter
// wraps a langchaingo model behind the same narrow capability surface; the
// pipeline never sees backend-specific types.
package provider

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownProvider is returned by New for a provider name with no adapter.
var ErrUnknownProvider = errors.New("unknown provider")

// Provider is the capability the refinement pipeline consumes. Generate must
// honor ctx cancellation and deadlines.
type Provider interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Name() string
	DefaultTokenLimit() int
}

// Options carries the connection config an adapter needs. Model and BaseURL
// fall back to per-backend defaults when empty.
type Options struct {
	APIKey  string
	Model   string
	BaseURL string
}

// New constructs the adapter for the named backend. Construction happens
// once per session; adapters are safe for reuse across generations.
func New(name string, opts Options) (Provider, error) {
	switch name {
	case "openai":
		return newOpenAI(opts)
	case "anthropic":
		return newAnthropic(opts)
	case "ollama":
		return newOllama(opts)
	case "test":
		return &TestProvider{Response: `{"title": "test commit", "message": ""}`}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}

// Names lists the selectable backends.
func Names() []string {
	return []string{"openai", "anthropic", "ollama"}
}
