package provider

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	openAIDefaultModel      = "gpt-4o"
	openAIDefaultTokenLimit = 128000
)

type openAIProvider struct {
	model *openai.LLM
}

func newOpenAI(opts Options) (Provider, error) {
	llmOpts := []openai.Option{openai.WithToken(opts.APIKey)}
	model := opts.Model
	if model == "" {
		model = openAIDefaultModel
	}
	llmOpts = append(llmOpts, openai.WithModel(model))
	if opts.BaseURL != "" {
		llmOpts = append(llmOpts, openai.WithBaseURL(opts.BaseURL))
	}

	llm, err := openai.New(llmOpts...)
	if err != nil {
		return nil, fmt.Errorf("initializing openai client: %w", err)
	}
	return &openAIProvider{model: llm}, nil
}

func (p *openAIProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return generateChat(ctx, p.model, systemPrompt, userPrompt)
}

func (p *openAIProvider) Name() string { return "openai" }

func (p *openAIProvider) DefaultTokenLimit() int { return openAIDefaultTokenLimit }

// generateChat runs a system+user exchange against any langchaingo model and
// returns the first choice's text.
func generateChat(ctx context.Context, model llms.Model, systemPrompt, userPrompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}
	resp, err := model.GenerateContent(ctx, messages)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return resp.Choices[0].Content, nil
}
