package llm

import (
	"context"
	"errors"
	"fmt"

	"quizforge/internal/domain"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicCompleter calls the Messages API. Anthropic has no JSON mode
// flag; the prompt carries the format instructions.
type AnthropicCompleter struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

func NewAnthropicCompleter(apiKey, model string, maxTokens int) (*AnthropicCompleter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicCompleter{client: &client, model: model, maxTokens: maxTokens}, nil
}

func (a *AnthropicCompleter) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	model := a.model
	if req.Model != "" {
		model = req.Model
	}

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(a.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	})
	if err != nil {
		return "", mapAnthropicError(err)
	}

	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", &domain.ProviderError{Provider: a.Name(), Err: errors.New("no text content in response")}
}

func (a *AnthropicCompleter) Name() string { return "anthropic" }

func mapAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return classify("anthropic", apiErr.StatusCode, err)
	}
	return classify("anthropic", 0, err)
}
