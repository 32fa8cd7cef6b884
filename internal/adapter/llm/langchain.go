package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	"quizforge/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
)

// LangChainCompleter adapts any langchaingo llms.Model. It serves the
// local Ollama setup and the langchaingo Google AI client.
type LangChainCompleter struct {
	model llms.Model
	name  string
}

func NewLangChainCompleter(name string, model llms.Model) *LangChainCompleter {
	return &LangChainCompleter{model: model, name: name}
}

// NewOllamaCompleter connects to an Ollama server.
func NewOllamaCompleter(serverURL, model string, timeout time.Duration) (*LangChainCompleter, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(serverURL),
		ollama.WithModel(model),
		ollama.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
	if err != nil {
		return nil, err
	}
	return NewLangChainCompleter("ollama", llm), nil
}

// NewGoogleAICompleter uses langchaingo's Gemini client.
func NewGoogleAICompleter(ctx context.Context, apiKey, model string) (*LangChainCompleter, error) {
	if apiKey == "" {
		return nil, errors.New("googleai API key is required")
	}
	llm, err := googleai.New(ctx, googleai.WithAPIKey(apiKey), googleai.WithDefaultModel(model))
	if err != nil {
		return nil, err
	}
	return NewLangChainCompleter("googleai", llm), nil
}

func (l *LangChainCompleter) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	opts := []llms.CallOption{llms.WithTemperature(0.2)}
	if req.Model != "" {
		opts = append(opts, llms.WithModel(req.Model))
	}
	if req.JSON {
		opts = append(opts, llms.WithJSONMode())
	}

	out, err := llms.GenerateFromSinglePrompt(ctx, l.model, req.Prompt, opts...)
	if err != nil {
		return "", classify(l.name, 0, err)
	}
	return out, nil
}

func (l *LangChainCompleter) Name() string { return l.name }
