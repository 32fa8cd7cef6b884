package llm

import (
	"context"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/logger"

	"go.uber.org/zap"
)

// LoggingCompleter records latency and outcome of every completion.
type LoggingCompleter struct {
	inner domain.Completer
}

func WithLogging(c domain.Completer) domain.Completer {
	return &LoggingCompleter{inner: c}
}

func (l *LoggingCompleter) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	start := time.Now()
	out, err := l.inner.Complete(ctx, req)

	fields := []zap.Field{
		zap.String("provider", l.inner.Name()),
		zap.String("purpose", string(req.Purpose)),
		zap.String("model", req.Model),
		zap.Int("prompt_chars", len(req.Prompt)),
		zap.Int("response_chars", len(out)),
		zap.Duration("latency", time.Since(start)),
	}
	if err != nil {
		logger.Get().Warn("Completion failed", append(fields, zap.Error(err))...)
		return out, err
	}
	logger.Get().Debug("Completion succeeded", fields...)
	return out, nil
}

func (l *LoggingCompleter) Name() string { return l.inner.Name() }
