package llm

import (
	"context"
	"errors"
	"fmt"

	"quizforge/internal/domain"

	"github.com/sashabaranov/go-openai"
)

// OpenAICompleter talks to OpenAI or any OpenAI-compatible endpoint.
type OpenAICompleter struct {
	client    *openai.Client
	model     string
	maxTokens int
}

func NewOpenAICompleter(apiKey, baseURL, model string, maxTokens int) (*OpenAICompleter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAICompleter{client: openai.NewClientWithConfig(cfg), model: model, maxTokens: maxTokens}, nil
}

func (o *OpenAICompleter) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	model := o.model
	if req.Model != "" {
		model = req.Model
	}

	chatReq := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxCompletionTokens: o.maxTokens,
	}
	if req.JSON {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", mapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &domain.ProviderError{Provider: o.Name(), Err: errors.New("no choices in response")}
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAICompleter) Name() string { return "openai" }

func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classify("openai", apiErr.HTTPStatusCode, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classify("openai", reqErr.HTTPStatusCode, err)
	}
	return classify("openai", 0, err)
}
