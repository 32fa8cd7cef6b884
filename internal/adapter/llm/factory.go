package llm

import (
	"context"
	"fmt"

	"quizforge/internal/config"
	"quizforge/internal/domain"
)

// Models used when the configuration leaves them empty.
type defaultModels struct {
	generate string
	analyze  string
}

var providerDefaults = map[string]defaultModels{
	"gemini":    {generate: "gemini-2.5-flash-lite", analyze: "gemini-2.5-flash"},
	"googleai":  {generate: "gemini-2.5-flash-lite", analyze: "gemini-2.5-flash"},
	"openai":    {generate: "gpt-4o-mini", analyze: "gpt-4o-mini"},
	"anthropic": {generate: "claude-haiku-4-5", analyze: "claude-haiku-4-5"},
	"ollama":    {generate: "qwen3:0.6b", analyze: "qwen3:0.6b"},
	"mock":      {generate: "mock", analyze: "mock"},
}

// ResolveModels fills empty model names with the provider defaults.
func ResolveModels(cfg config.LLMConfig) (generate, analyze string) {
	d := providerDefaults[cfg.Provider]
	generate, analyze = cfg.Model, cfg.AnalysisModel
	if generate == "" {
		generate = d.generate
	}
	if analyze == "" {
		analyze = d.analyze
	}
	return generate, analyze
}

// NewCompleter builds the configured provider wrapped with logging. It is
// constructed once at startup and injected into the gateway.
func NewCompleter(ctx context.Context, cfg config.LLMConfig) (domain.Completer, error) {
	model, _ := ResolveModels(cfg)
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	var (
		c   domain.Completer
		err error
	)
	switch cfg.Provider {
	case "gemini":
		c, err = NewGeminiCompleter(ctx, cfg.APIKey, model)
	case "googleai":
		c, err = NewGoogleAICompleter(ctx, cfg.APIKey, model)
	case "openai":
		c, err = NewOpenAICompleter(cfg.APIKey, cfg.BaseURL, model, maxTokens)
	case "anthropic":
		c, err = NewAnthropicCompleter(cfg.APIKey, model, maxTokens)
	case "ollama":
		c, err = NewOllamaCompleter(cfg.ServerURL, model, cfg.Timeout)
	case "mock":
		c = NewMockCompleter()
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s completer: %w", cfg.Provider, err)
	}
	return WithLogging(c), nil
}
