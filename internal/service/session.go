package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/logger"
	"quizforge/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned for an unknown or evicted session id.
var ErrSessionNotFound = domain.NewError(domain.CodeNotFound, "session not found", nil)

const defaultMaxSessions = 16

// SessionService drives live quiz sessions over the session engine.
type SessionService interface {
	StartSession(ctx context.Context, req *dto.StartSessionRequest) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, id string) (*dto.SessionResponse, error)
	SelectOption(ctx context.Context, id string, optionIndex int) (*dto.SessionResponse, error)
	Next(ctx context.Context, id string) (*dto.SessionResponse, error)
	Prev(ctx context.Context, id string) (*dto.SessionResponse, error)
	JumpTo(ctx context.Context, id string, index int) (*dto.SessionResponse, error)
	ToggleFlag(ctx context.Context, id string) (*dto.FlagResponse, error)
	Submit(ctx context.Context, id string) (*dto.SessionResponse, error)
	// Handoff returns the completion handoff of a finished session.
	Handoff(id string) (*session.Handoff, error)
	// Close stops every session timer.
	Close()
}

type liveSession struct {
	engine    *session.Engine
	stopTimer context.CancelFunc
	seq       uint64
}

type sessionService struct {
	loader    session.QuizLoader
	recorder  session.ResultRecorder
	timeLimit time.Duration
	tick      time.Duration
	max       int

	mu       sync.Mutex
	seq      uint64
	sessions map[string]*liveSession
}

// SessionOption customizes NewSessionService.
type SessionOption func(*sessionService)

// WithTickInterval changes the countdown tick, mainly for tests.
func WithTickInterval(d time.Duration) SessionOption {
	return func(s *sessionService) { s.tick = d }
}

// WithMaxSessions bounds how many sessions are kept; the oldest are evicted.
func WithMaxSessions(n int) SessionOption {
	return func(s *sessionService) { s.max = n }
}

func NewSessionService(loader session.QuizLoader, recorder session.ResultRecorder, defaultTimeLimit time.Duration, opts ...SessionOption) SessionService {
	s := &sessionService{
		loader:    loader,
		recorder:  recorder,
		timeLimit: defaultTimeLimit,
		tick:      time.Second,
		max:       defaultMaxSessions,
		sessions:  make(map[string]*liveSession),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *sessionService) StartSession(ctx context.Context, req *dto.StartSessionRequest) (*dto.SessionResponse, error) {
	limit := s.timeLimit
	if req.TimeLimitSeconds > 0 {
		limit = time.Duration(req.TimeLimitSeconds) * time.Second
	}
	e := session.New(session.Options{
		ID:          uuid.NewString(),
		Interactive: req.Interactive,
		TimeLimit:   limit,
		Recorder:    s.recorder,
	})
	if err := e.Load(ctx, s.loader, req.QuizID); err != nil {
		logger.Get().Warn("Session could not load quiz", zap.String("quiz_id", req.QuizID), zap.Error(err))
		return nil, err
	}

	timerCtx, cancel := context.WithCancel(context.Background())
	go session.RunTimer(timerCtx, e, s.tick)

	s.mu.Lock()
	s.seq++
	s.sessions[e.ID()] = &liveSession{engine: e, stopTimer: cancel, seq: s.seq}
	s.evictLocked()
	s.mu.Unlock()

	logger.Get().Info("Quiz session started",
		zap.String("session_id", e.ID()),
		zap.String("quiz_id", req.QuizID),
		zap.Bool("interactive", req.Interactive))
	return s.render(e), nil
}

// evictLocked drops the oldest sessions above the limit.
func (s *sessionService) evictLocked() {
	if len(s.sessions) <= s.max {
		return
	}
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return s.sessions[ids[i]].seq < s.sessions[ids[j]].seq
	})
	for _, id := range ids[:len(ids)-s.max] {
		s.sessions[id].stopTimer()
		delete(s.sessions, id)
		logger.Get().Debug("Evicted quiz session", zap.String("session_id", id))
	}
}

func (s *sessionService) engine(id string) (*session.Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ls, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return ls.engine, nil
}

func (s *sessionService) render(e *session.Engine) *dto.SessionResponse {
	resp := dto.ToSessionResponse(e.Snapshot())
	if h, err := e.Handoff(); err == nil {
		result := dto.ToQuizResultResponse(h.Result, h.ResultSaved)
		resp.Result = &result
	}
	return resp
}

func (s *sessionService) GetSession(_ context.Context, id string) (*dto.SessionResponse, error) {
	e, err := s.engine(id)
	if err != nil {
		return nil, err
	}
	return s.render(e), nil
}

func (s *sessionService) SelectOption(_ context.Context, id string, optionIndex int) (*dto.SessionResponse, error) {
	e, err := s.engine(id)
	if err != nil {
		return nil, err
	}
	if _, err := e.SelectOption(optionIndex); err != nil {
		return nil, err
	}
	return s.render(e), nil
}

func (s *sessionService) Next(ctx context.Context, id string) (*dto.SessionResponse, error) {
	e, err := s.engine(id)
	if err != nil {
		return nil, err
	}
	if _, err := e.Next(ctx); err != nil {
		return nil, err
	}
	return s.render(e), nil
}

func (s *sessionService) Prev(_ context.Context, id string) (*dto.SessionResponse, error) {
	e, err := s.engine(id)
	if err != nil {
		return nil, err
	}
	if err := e.Prev(); err != nil {
		return nil, err
	}
	return s.render(e), nil
}

func (s *sessionService) JumpTo(_ context.Context, id string, index int) (*dto.SessionResponse, error) {
	e, err := s.engine(id)
	if err != nil {
		return nil, err
	}
	if err := e.JumpTo(index); err != nil {
		return nil, err
	}
	return s.render(e), nil
}

func (s *sessionService) ToggleFlag(_ context.Context, id string) (*dto.FlagResponse, error) {
	e, err := s.engine(id)
	if err != nil {
		return nil, err
	}
	flagged, err := e.ToggleFlag()
	if err != nil {
		return nil, err
	}
	snap := e.Snapshot()
	q, _ := snap.Current()
	return &dto.FlagResponse{QuestionID: q.ID, Flagged: flagged}, nil
}

func (s *sessionService) Submit(ctx context.Context, id string) (*dto.SessionResponse, error) {
	e, err := s.engine(id)
	if err != nil {
		return nil, err
	}
	if _, err := e.Submit(ctx); err != nil {
		return nil, err
	}
	return s.render(e), nil
}

func (s *sessionService) Handoff(id string) (*session.Handoff, error) {
	e, err := s.engine(id)
	if err != nil {
		return nil, err
	}
	return e.Handoff()
}

func (s *sessionService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ls := range s.sessions {
		ls.stopTimer()
		delete(s.sessions, id)
	}
}
