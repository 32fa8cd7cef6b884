// Package llm adapts concrete generative-language SDKs to domain.Completer.
package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"quizforge/internal/domain"
)

// classify maps an SDK failure to the domain error taxonomy. statusCode is
// the HTTP status reported by the SDK, or 0 when unknown.
func classify(provider string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if statusCode == http.StatusTooManyRequests || (statusCode == 0 && looksRateLimited(err.Error())) {
		return &domain.RateLimitError{Err: err}
	}
	return &domain.ProviderError{Provider: provider, Err: err}
}

// looksRateLimited recognizes throttling in SDKs that only surface text.
func looksRateLimited(msg string) bool {
	m := strings.ToLower(msg)
	return strings.Contains(m, "429") ||
		strings.Contains(m, "resource_exhausted") ||
		strings.Contains(m, "rate limit") ||
		strings.Contains(m, "too many requests")
}
