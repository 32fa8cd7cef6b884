package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/repository/models"
	"quizforge/internal/util"

	"github.com/jmoiron/sqlx"
)

// FlashcardDatabaseAdapter implements domain.FlashcardRepository.
type FlashcardDatabaseAdapter struct {
	db DBTX
}

func NewFlashcardDatabaseAdapter(db *sqlx.DB) domain.FlashcardRepository {
	return &FlashcardDatabaseAdapter{db: db}
}

func (a *FlashcardDatabaseAdapter) CreateFlashcardSet(ctx context.Context, set *domain.FlashcardSet) error {
	if set == nil {
		return domain.NewInvalidInputError("cannot save nil flashcard set")
	}
	row := models.FlashcardSet{
		ID:        util.NewULID(),
		Topic:     set.Topic,
		Cards:     models.NewJSONColumn(set.Cards),
		CreatedAt: time.Now().UTC(),
	}
	query := `INSERT INTO flashcard_sets (id, topic, cards, created_at)
	VALUES (:id, :topic, :cards, :created_at)`

	if _, err := GetExecutor(ctx, a.db).NamedExecContext(ctx, query, row); err != nil {
		return domain.NewPersistenceError("create flashcard set", err)
	}
	set.ID = row.ID
	set.CreatedAt = row.CreatedAt
	return nil
}

// ListFlashcardSets returns sets newest first, optionally for one topic.
func (a *FlashcardDatabaseAdapter) ListFlashcardSets(ctx context.Context, topic string) ([]*domain.FlashcardSet, error) {
	var b strings.Builder
	b.WriteString(`SELECT
		id "id",
		topic "topic",
		cards "cards",
		created_at "created_at"
	FROM flashcard_sets`)
	args := map[string]interface{}{}
	if topic != "" {
		b.WriteString("\n\tWHERE topic = :topic")
		args["topic"] = topic
	}
	b.WriteString("\n\tORDER BY created_at DESC")

	var rows []models.FlashcardSet
	if err := selectNamed(ctx, GetExecutor(ctx, a.db), &rows, b.String(), args); err != nil {
		return nil, domain.NewPersistenceError("list flashcard sets", err)
	}
	out := make([]*domain.FlashcardSet, 0, len(rows))
	for _, r := range rows {
		cards := r.Cards.V
		if cards == nil {
			cards = []domain.Flashcard{}
		}
		out = append(out, &domain.FlashcardSet{ID: r.ID, Topic: r.Topic, Cards: cards, CreatedAt: r.CreatedAt})
	}
	return out, nil
}

// ResultDatabaseAdapter implements domain.ResultRepository. Results are
// append-only; there is no update or delete.
type ResultDatabaseAdapter struct {
	db DBTX
}

func NewResultDatabaseAdapter(db *sqlx.DB) domain.ResultRepository {
	return &ResultDatabaseAdapter{db: db}
}

func (a *ResultDatabaseAdapter) CreateResult(ctx context.Context, result *domain.QuizResult) error {
	if result == nil {
		return domain.NewInvalidInputError("cannot save nil result")
	}
	createdAt := result.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	row := models.QuizResult{
		ID:             util.NewULID(),
		QuizID:         result.QuizID,
		Topic:          result.Topic,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		WrongAnswers:   models.NewJSONColumn(result.WrongAnswers),
		CreatedAt:      createdAt.UTC(),
	}
	query := `INSERT INTO quiz_results (id, quiz_id, topic, score, total_questions, wrong_answers, created_at)
	VALUES (:id, :quiz_id, :topic, :score, :total_questions, :wrong_answers, :created_at)`

	if _, err := GetExecutor(ctx, a.db).NamedExecContext(ctx, query, row); err != nil {
		return domain.NewPersistenceError("create quiz result", err)
	}
	result.ID = row.ID
	result.CreatedAt = row.CreatedAt
	return nil
}

// ListRecentResults returns up to limit results, newest first.
func (a *ResultDatabaseAdapter) ListRecentResults(ctx context.Context, limit int) ([]*domain.QuizResult, error) {
	exec := GetExecutor(ctx, a.db)
	query := fmt.Sprintf(`SELECT
		id "id",
		quiz_id "quiz_id",
		topic "topic",
		score "score",
		total_questions "total_questions",
		wrong_answers "wrong_answers",
		created_at "created_at"
	FROM quiz_results
	ORDER BY created_at DESC
	%s`, limitClause(exec.DriverName()))

	var rows []models.QuizResult
	if err := selectNamed(ctx, exec, &rows, query, map[string]interface{}{"row_limit": limit}); err != nil {
		return nil, domain.NewPersistenceError("list quiz results", err)
	}
	out := make([]*domain.QuizResult, 0, len(rows))
	for _, r := range rows {
		wrong := r.WrongAnswers.V
		if wrong == nil {
			wrong = []domain.WrongAnswer{}
		}
		out = append(out, &domain.QuizResult{
			ID:             r.ID,
			QuizID:         r.QuizID,
			Topic:          r.Topic,
			Score:          r.Score,
			TotalQuestions: r.TotalQuestions,
			WrongAnswers:   wrong,
			CreatedAt:      r.CreatedAt,
		})
	}
	return out, nil
}
