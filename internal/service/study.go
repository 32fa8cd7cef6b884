package service

import (
	"context"
	"strings"

	"quizforge/internal/config"
	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/logger"
	"quizforge/internal/scoring"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// StudyService covers flashcard sets and the derived study views.
type StudyService interface {
	SaveFlashcards(ctx context.Context, req *dto.SaveFlashcardsRequest) (*dto.FlashcardSetResponse, error)
	ListFlashcardSets(ctx context.Context, topic string) (*dto.FlashcardSetListResponse, error)
	WeakAreas(ctx context.Context) (*dto.WeakAreasResponse, error)
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
}

type studyService struct {
	quizzes    domain.QuizRepository
	flashcards domain.FlashcardRepository
	results    domain.ResultRepository
	cfg        config.QuizConfig
}

func NewStudyService(
	quizzes domain.QuizRepository,
	flashcards domain.FlashcardRepository,
	results domain.ResultRepository,
	cfg config.QuizConfig,
) StudyService {
	if cfg.RecentResultsLimit <= 0 {
		cfg.RecentResultsLimit = 50
	}
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = 20
	}
	return &studyService{quizzes: quizzes, flashcards: flashcards, results: results, cfg: cfg}
}

// SaveFlashcards stores the non-blank cards of req, deduplicated by front.
func (s *studyService) SaveFlashcards(ctx context.Context, req *dto.SaveFlashcardsRequest) (*dto.FlashcardSetResponse, error) {
	cards := scoring.MergeFlashcards(scoring.CleanFlashcards(req.Cards))
	if len(cards) == 0 {
		return nil, domain.NewInvalidInputError("no flashcards to save")
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		topic = domain.DefaultFlashcardTopic
	}

	set := &domain.FlashcardSet{Topic: topic, Cards: cards}
	if err := s.flashcards.CreateFlashcardSet(ctx, set); err != nil {
		logger.Get().Error("Failed to save flashcards", zap.String("topic", topic), zap.Error(err))
		return nil, err
	}
	logger.Get().Info("Flashcards saved",
		zap.String("set_id", set.ID),
		zap.String("topic", topic),
		zap.Int("cards", len(cards)))
	resp := dto.ToFlashcardSetResponse(set)
	return &resp, nil
}

func (s *studyService) ListFlashcardSets(ctx context.Context, topic string) (*dto.FlashcardSetListResponse, error) {
	sets, err := s.flashcards.ListFlashcardSets(ctx, strings.TrimSpace(topic))
	if err != nil {
		return nil, err
	}
	resp := &dto.FlashcardSetListResponse{Sets: make([]dto.FlashcardSetResponse, 0, len(sets))}
	for _, set := range sets {
		resp.Sets = append(resp.Sets, dto.ToFlashcardSetResponse(set))
	}
	return resp, nil
}

func (s *studyService) weakAreas(ctx context.Context) ([]domain.WeakArea, error) {
	results, err := s.results.ListRecentResults(ctx, s.cfg.RecentResultsLimit)
	if err != nil {
		return nil, err
	}
	return scoring.ComputeWeakAreas(results), nil
}

// WeakAreas derives topic accuracy from the most recent results.
func (s *studyService) WeakAreas(ctx context.Context) (*dto.WeakAreasResponse, error) {
	areas, err := s.weakAreas(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.WeakAreasResponse{WeakAreas: areas}, nil
}

// Dashboard loads recent quizzes, flashcard sets and weak areas concurrently.
func (s *studyService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	var (
		quizzes []*domain.Quiz
		sets    []*domain.FlashcardSet
		areas   []domain.WeakArea
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		quizzes, err = s.quizzes.ListQuizzes(gctx, s.cfg.ListLimit)
		return err
	})
	g.Go(func() error {
		var err error
		sets, err = s.flashcards.ListFlashcardSets(gctx, "")
		return err
	})
	g.Go(func() error {
		var err error
		areas, err = s.weakAreas(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Get().Error("Failed to load dashboard", zap.Error(err))
		return nil, err
	}

	resp := &dto.DashboardResponse{
		RecentQuizzes: make([]dto.QuizSummary, 0, len(quizzes)),
		FlashcardSets: make([]dto.FlashcardSetResponse, 0, len(sets)),
		WeakAreas:     areas,
	}
	for _, q := range quizzes {
		resp.RecentQuizzes = append(resp.RecentQuizzes, dto.ToQuizSummary(q))
	}
	for _, set := range sets {
		resp.FlashcardSets = append(resp.FlashcardSets, dto.ToFlashcardSetResponse(set))
	}
	return resp, nil
}
