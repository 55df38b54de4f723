package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultOpenRouterBaseURL is OpenRouter's OpenAI-compatible endpoint.
const DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// openRouterProvider talks to OpenRouter through its OpenAI-compatible
// chat completions API.
type openRouterProvider struct {
	client *openai.Client
	model  string
}

func newOpenRouter(apiKey, baseURL, model string) *openRouterProvider {
	if baseURL == "" {
		baseURL = DefaultOpenRouterBaseURL
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &openRouterProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (p *openRouterProvider) Complete(ctx context.Context, system, prompt string, opts *CompleteOptions) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
	}
	if opts != nil {
		if opts.Temperature != nil {
			req.Temperature = *opts.Temperature
		}
		if opts.MaxTokens > 0 {
			req.MaxTokens = opts.MaxTokens
		}
	}
	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openrouter completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openrouter returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
