package provider

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms/anthropic"
)

const (
	anthropicDefaultModel      = "claude-3-5-sonnet-latest"
	anthropicDefaultTokenLimit = 200000
)

type anthropicProvider struct {
	model *anthropic.LLM
}

func newAnthropic(opts Options) (Provider, error) {
	model := opts.Model
	if model == "" {
		model = anthropicDefaultModel
	}
	llm, err := anthropic.New(
		anthropic.WithToken(opts.APIKey),
		anthropic.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("initializing anthropic client: %w", err)
	}
	return &anthropicProvider{model: llm}, nil
}

func (p *anthropicProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return generateChat(ctx, p.model, systemPrompt, userPrompt)
}

func (p *anthropicProvider) Name() string { return "anthropic" }

func (p *anthropicProvider) DefaultTokenLimit() int { return anthropicDefaultTokenLimit }
