package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/logger"
	"quizforge/internal/scoring"
	"quizforge/internal/session"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// AnalysisService turns a finished session into the results view.
type AnalysisService interface {
	// AnalyzeSession consumes the session handoff once. Later calls for the
	// same session return the report built by the first.
	AnalyzeSession(ctx context.Context, sessionID string) (*dto.AnalysisResponse, error)
	// LastResult returns the report kept in the scratch slot.
	LastResult(ctx context.Context) (*dto.AnalysisResponse, error)
}

// HandoffSource exposes finished sessions. SessionService satisfies it.
type HandoffSource interface {
	Handoff(id string) (*session.Handoff, error)
}

type analysisService struct {
	sessions  HandoffSource
	generator domain.QuizGenerator
	scratch   ScratchStore

	group      singleflight.Group
	mu         sync.RWMutex
	reports    map[string]*dto.AnalysisResponse
	order      []string
	maxReports int
}

func NewAnalysisService(sessions HandoffSource, generator domain.QuizGenerator, scratch ScratchStore) AnalysisService {
	return &analysisService{
		sessions:   sessions,
		generator:  generator,
		scratch:    scratch,
		reports:    make(map[string]*dto.AnalysisResponse),
		// Reports are kept as long as the session registry keeps sessions.
		maxReports: defaultMaxSessions,
	}
}

// storeLocked caches report, dropping the oldest reports past maxReports.
func (s *analysisService) storeLocked(sessionID string, report *dto.AnalysisResponse) {
	if _, ok := s.reports[sessionID]; !ok {
		s.order = append(s.order, sessionID)
	}
	s.reports[sessionID] = report
	for len(s.order) > s.maxReports {
		delete(s.reports, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *analysisService) cached(sessionID string) (*dto.AnalysisResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[sessionID]
	return r, ok
}

func (s *analysisService) AnalyzeSession(ctx context.Context, sessionID string) (*dto.AnalysisResponse, error) {
	if r, ok := s.cached(sessionID); ok {
		return r, nil
	}
	v, err, shared := s.group.Do(sessionID, func() (interface{}, error) {
		if r, ok := s.cached(sessionID); ok {
			return r, nil
		}
		return s.analyze(ctx, sessionID)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Get().Debug("Shared in-flight analysis", zap.String("session_id", sessionID))
	}
	return v.(*dto.AnalysisResponse), nil
}

func (s *analysisService) analyze(ctx context.Context, sessionID string) (*dto.AnalysisResponse, error) {
	h, err := s.sessions.Handoff(sessionID)
	if err != nil {
		return nil, err
	}
	if err := h.Claim(); err != nil {
		return nil, err
	}

	start := time.Now()
	texts := scoring.AnswerTexts(h.Questions, h.Answers)
	analysis := s.generator.AnalyzeResult(ctx, h.Questions, texts)

	answers := make(map[int]int, len(h.Answers))
	for k, v := range h.Answers {
		answers[k] = v
	}
	report := &dto.AnalysisResponse{
		SessionID:  h.SessionID,
		QuizID:     h.QuizID,
		Title:      h.Title,
		Topic:      h.Topic,
		Result:     dto.ToQuizResultResponse(h.Result, h.ResultSaved),
		Questions:  dto.ToQuestionDTOs(h.Questions, true),
		Answers:    answers,
		Feedback:   analysis.Feedback,
		Flashcards: scoring.MergeFlashcards(h.Flashcards, analysis.Flashcards),
	}

	s.mu.Lock()
	s.storeLocked(sessionID, report)
	s.mu.Unlock()

	if err := s.scratch.PutLastResult(ctx, report); err != nil {
		logger.Get().Warn("Could not keep last result", zap.String("session_id", sessionID), zap.Error(err))
	}
	logger.Get().Info("Session analyzed",
		zap.String("session_id", sessionID),
		zap.Int("score", report.Result.Score),
		zap.Int("total", report.Result.TotalQuestions),
		zap.Int("flashcards", len(report.Flashcards)),
		zap.Duration("elapsed", time.Since(start)))
	return report, nil
}

func (s *analysisService) LastResult(ctx context.Context) (*dto.AnalysisResponse, error) {
	report, err := s.scratch.GetLastResult(ctx)
	if err != nil {
		if errors.Is(err, ErrScratchEmpty) {
			return nil, domain.NewNotFoundError("result", "last")
		}
		return nil, err
	}
	return report, nil
}
