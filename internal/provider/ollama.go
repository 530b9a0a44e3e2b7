package provider

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms/ollama"
)

const (
	ollamaDefaultModel      = "llama3"
	ollamaDefaultTokenLimit = 8192
)

// ollamaProvider talks to a local Ollama daemon; no API key involved.
type ollamaProvider struct {
	model *ollama.LLM
}

func newOllama(opts Options) (Provider, error) {
	model := opts.Model
	if model == "" {
		model = ollamaDefaultModel
	}
	llmOpts := []ollama.Option{ollama.WithModel(model)}
	if opts.BaseURL != "" {
		llmOpts = append(llmOpts, ollama.WithServerURL(opts.BaseURL))
	}

	llm, err := ollama.New(llmOpts...)
	if err != nil {
		return nil, fmt.Errorf("initializing ollama client: %w", err)
	}
	return &ollamaProvider{model: llm}, nil
}

func (p *ollamaProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return generateChat(ctx, p.model, systemPrompt, userPrompt)
}

func (p *ollamaProvider) Name() string { return "ollama" }

func (p *ollamaProvider) DefaultTokenLimit() int { return ollamaDefaultTokenLimit }
