package domain

import (
	"context"
	"fmt"
	"time"
)

// Purpose tags a completion request for logging and model selection.
type Purpose string

const (
	PurposeGenerate Purpose = "generate"
	PurposeAnalyze  Purpose = "analyze"
)

// CompletionRequest is a single prompt sent to the generative service.
type CompletionRequest struct {
	Prompt  string
	Purpose Purpose
	// JSON asks the provider for a JSON-only response when it supports it.
	JSON bool
	// Model overrides the provider's default model when non-empty.
	Model string
}

// Completer is the black-box text-in, text-out generative service.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Name() string
}

// RateLimitError is returned by a Completer when the provider throttled the
// request (HTTP 429). It is the only retryable failure.
type RateLimitError struct {
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// ProviderError is any other failure of the generative service.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
