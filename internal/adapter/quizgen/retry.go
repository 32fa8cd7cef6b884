package quizgen

import (
	"context"
	"errors"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/logger"

	"go.uber.org/zap"
)

// RetryPolicy retries rate-limited completions with exponential backoff.
// Nothing else is retried.
type RetryPolicy struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, InitialWait: time.Second, MaxWait: 30 * time.Second}
}

func (p RetryPolicy) backoff(attempt int, err error) time.Duration {
	wait := p.InitialWait << attempt
	var rl *domain.RateLimitError
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		wait = rl.RetryAfter
	}
	if p.MaxWait > 0 && wait > p.MaxWait {
		wait = p.MaxWait
	}
	return wait
}

func retryable(err error) bool {
	var rl *domain.RateLimitError
	return errors.As(err, &rl)
}

// complete runs the completion under the policy.
func (p RetryPolicy) complete(ctx context.Context, c domain.Completer, req domain.CompletionRequest) (string, error) {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		out, err := c.Complete(ctx, req)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !retryable(err) || attempt == attempts-1 {
			break
		}

		wait := p.backoff(attempt, err)
		logger.Get().Warn("Completion rate limited, backing off",
			zap.String("purpose", string(req.Purpose)),
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
		)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return "", lastErr
}
