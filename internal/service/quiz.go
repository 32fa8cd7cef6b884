package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"quizforge/internal/config"
	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/logger"

	"go.uber.org/zap"
)

// QuizService defines the interface for quiz-related operations
type QuizService interface {
	GenerateQuiz(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error)
	ListQuizzes(ctx context.Context) (*dto.QuizListResponse, error)
	GetQuiz(ctx context.Context, id string) (*dto.QuizResponse, error)
	UpdateQuiz(ctx context.Context, id string, req *dto.UpdateQuizRequest) (*dto.QuizResponse, error)
	DeleteQuiz(ctx context.Context, id string) error
	// ImportQuizzes stores all quizzes or none of them.
	ImportQuizzes(ctx context.Context, quizzes []*domain.Quiz) ([]string, error)
	// LoadQuiz resolves a stored id or the "custom" scratch quiz.
	LoadQuiz(ctx context.Context, id string) (*domain.Quiz, error)
}

type quizService struct {
	repo      domain.QuizRepository
	generator domain.QuizGenerator
	scratch   ScratchStore
	tx        domain.TransactionManager
	cfg       config.QuizConfig
}

// NewQuizService creates a new instance of quizService. tx may be nil, in
// which case imports run without a transaction.
func NewQuizService(
	repo domain.QuizRepository,
	generator domain.QuizGenerator,
	scratch ScratchStore,
	tx domain.TransactionManager,
	cfg config.QuizConfig,
) QuizService {
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = 20
	}
	return &quizService{repo: repo, generator: generator, scratch: scratch, tx: tx, cfg: cfg}
}

// GenerateQuiz asks the gateway for questions and commits the quiz only when
// generation fully succeeded.
func (s *quizService) GenerateQuiz(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
	difficulty, err := domain.ParseDifficulty(req.Difficulty)
	if err != nil {
		return nil, err
	}

	var source, title, topic string
	switch req.Mode {
	case dto.ModeText:
		source, title, topic = req.Text, domain.NotesQuizTitle, domain.NotesQuizTopic
	default:
		topic = strings.TrimSpace(req.Topic)
		title = topic
		source = domain.TopicSource(topic, difficulty, req.Count)
	}

	start := time.Now()
	questions, err := s.generator.GenerateQuestions(ctx, source)
	if err != nil {
		logger.Get().Warn("Quiz generation failed",
			zap.String("mode", req.Mode),
			zap.String("topic", topic),
			zap.Error(err))
		return nil, err
	}
	logger.Get().Info("Quiz generated",
		zap.String("mode", req.Mode),
		zap.String("topic", topic),
		zap.Int("questions", len(questions)),
		zap.Duration("elapsed", time.Since(start)))

	quiz := domain.NewQuiz(title, topic, difficulty, questions)

	if !req.ShouldSave() {
		quiz.ID = domain.CustomQuizID
		if err := s.scratch.PutCurrentQuiz(ctx, quiz); err != nil {
			return nil, err
		}
		return dto.ToQuizResponse(quiz, false), nil
	}

	if err := s.repo.CreateQuiz(ctx, quiz); err != nil {
		return nil, err
	}
	return dto.ToQuizResponse(quiz, true), nil
}

// ListQuizzes returns the most recent quizzes.
func (s *quizService) ListQuizzes(ctx context.Context) (*dto.QuizListResponse, error) {
	quizzes, err := s.repo.ListQuizzes(ctx, s.cfg.ListLimit)
	if err != nil {
		return nil, err
	}
	resp := &dto.QuizListResponse{Quizzes: make([]dto.QuizSummary, 0, len(quizzes))}
	for _, q := range quizzes {
		resp.Quizzes = append(resp.Quizzes, dto.ToQuizSummary(q))
	}
	return resp, nil
}

func (s *quizService) GetQuiz(ctx context.Context, id string) (*dto.QuizResponse, error) {
	quiz, err := s.LoadQuiz(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.ToQuizResponse(quiz, id != domain.CustomQuizID), nil
}

// UpdateQuiz replaces title and questions. Questions are re-validated and
// renumbered; topic and difficulty are kept.
func (s *quizService) UpdateQuiz(ctx context.Context, id string, req *dto.UpdateQuizRequest) (*dto.QuizResponse, error) {
	quiz, err := s.repo.GetQuiz(ctx, id)
	if err != nil {
		return nil, err
	}
	questions := domain.Renumber(dto.ToDomainQuestions(req.Questions))
	if err := domain.ValidateQuestions(questions); err != nil {
		return nil, err
	}
	quiz.Title = strings.TrimSpace(req.Title)
	quiz.Questions = questions
	if err := s.repo.UpdateQuiz(ctx, quiz); err != nil {
		logger.Get().Error("Failed to update quiz", zap.String("quiz_id", id), zap.Error(err))
		return nil, err
	}
	return dto.ToQuizResponse(quiz, true), nil
}

func (s *quizService) DeleteQuiz(ctx context.Context, id string) error {
	if err := s.repo.DeleteQuiz(ctx, id); err != nil {
		logger.Get().Error("Failed to delete quiz", zap.String("quiz_id", id), zap.Error(err))
		return err
	}
	logger.Get().Info("Quiz deleted", zap.String("quiz_id", id))
	return nil
}

func (s *quizService) ImportQuizzes(ctx context.Context, quizzes []*domain.Quiz) ([]string, error) {
	for i, q := range quizzes {
		q.Questions = domain.Renumber(q.Questions)
		d, err := domain.ParseDifficulty(string(q.Difficulty))
		if err != nil {
			return nil, err
		}
		q.Difficulty = d
		if err := q.Validate(); err != nil {
			var ve *domain.ValidationError
			if errors.As(err, &ve) {
				ve.Message = q.Title + ": " + ve.Message
			}
			logger.Get().Warn("Rejected quiz import", zap.Int("quiz_index", i), zap.Error(err))
			return nil, err
		}
	}

	ids := make([]string, 0, len(quizzes))
	store := func(ctx context.Context) error {
		for _, q := range quizzes {
			if err := s.repo.CreateQuiz(ctx, q); err != nil {
				return err
			}
			ids = append(ids, q.ID)
		}
		return nil
	}

	var err error
	if s.tx != nil {
		err = s.tx.WithTransaction(ctx, store)
	} else {
		err = store(ctx)
	}
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *quizService) LoadQuiz(ctx context.Context, id string) (*domain.Quiz, error) {
	if id != domain.CustomQuizID {
		return s.repo.GetQuiz(ctx, id)
	}
	quiz, err := s.scratch.GetCurrentQuiz(ctx)
	if err != nil {
		if errors.Is(err, ErrScratchEmpty) {
			return nil, domain.NewNotFoundError("quiz", id)
		}
		return nil, err
	}
	quiz.ID = domain.CustomQuizID
	return quiz, nil
}
