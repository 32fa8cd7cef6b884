package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quizforge/internal/cache"
	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/logger"

	"go.uber.org/zap"
)

// ErrScratchEmpty is returned when a scratch slot holds nothing.
var ErrScratchEmpty = errors.New("scratch slot is empty")

// ScratchStore holds the single-user ephemeral slots: the guest quiz
// addressed as "custom" and the last analysis report.
type ScratchStore interface {
	PutCurrentQuiz(ctx context.Context, quiz *domain.Quiz) error
	GetCurrentQuiz(ctx context.Context) (*domain.Quiz, error)
	PutLastResult(ctx context.Context, report *dto.AnalysisResponse) error
	GetLastResult(ctx context.Context) (*dto.AnalysisResponse, error)
}

type scratchStoreImpl struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewScratchStore returns a store over c. A nil cache yields a no-op store
// so the app keeps running without one.
func NewScratchStore(c domain.Cache, ttl time.Duration) ScratchStore {
	if c == nil {
		logger.Get().Warn("ScratchStore initialized with nil cache. Scratch slots are disabled.")
		return &noopScratchStore{}
	}
	return &scratchStoreImpl{cache: c, ttl: ttl}
}

func (s *scratchStoreImpl) put(ctx context.Context, slot string, v any) error {
	key := cache.ScratchKey(slot)
	data, err := json.Marshal(v)
	if err != nil {
		return domain.NewInternalError("failed to marshal scratch value", err)
	}
	if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
		logger.Get().Error("Failed to write scratch slot", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError(fmt.Sprintf("failed to write scratch slot %s", slot), err)
	}
	logger.Get().Debug("Wrote scratch slot", zap.String("key", key), zap.Duration("ttl", s.ttl))
	return nil
}

func (s *scratchStoreImpl) get(ctx context.Context, slot string, v any) error {
	key := cache.ScratchKey(slot)
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return ErrScratchEmpty
		}
		logger.Get().Error("Failed to read scratch slot", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError(fmt.Sprintf("failed to read scratch slot %s", slot), err)
	}
	if data == "" {
		return ErrScratchEmpty
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return domain.NewInternalError(fmt.Sprintf("corrupt scratch slot %s", slot), err)
	}
	return nil
}

func (s *scratchStoreImpl) PutCurrentQuiz(ctx context.Context, quiz *domain.Quiz) error {
	if quiz == nil {
		return domain.NewInvalidInputError("cannot store nil quiz")
	}
	return s.put(ctx, cache.SlotCurrentQuiz, quiz)
}

func (s *scratchStoreImpl) GetCurrentQuiz(ctx context.Context) (*domain.Quiz, error) {
	var quiz domain.Quiz
	if err := s.get(ctx, cache.SlotCurrentQuiz, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (s *scratchStoreImpl) PutLastResult(ctx context.Context, report *dto.AnalysisResponse) error {
	if report == nil {
		return domain.NewInvalidInputError("cannot store nil report")
	}
	return s.put(ctx, cache.SlotLastResult, report)
}

func (s *scratchStoreImpl) GetLastResult(ctx context.Context) (*dto.AnalysisResponse, error) {
	var report dto.AnalysisResponse
	if err := s.get(ctx, cache.SlotLastResult, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

type noopScratchStore struct{}

func (noopScratchStore) PutCurrentQuiz(context.Context, *domain.Quiz) error { return nil }

func (noopScratchStore) GetCurrentQuiz(context.Context) (*domain.Quiz, error) {
	return nil, ErrScratchEmpty
}

func (noopScratchStore) PutLastResult(context.Context, *dto.AnalysisResponse) error { return nil }

func (noopScratchStore) GetLastResult(context.Context) (*dto.AnalysisResponse, error) {
	return nil, ErrScratchEmpty
}
