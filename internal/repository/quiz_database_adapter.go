package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/repository/models"
	"quizforge/internal/util"

	"github.com/jmoiron/sqlx"
)

const quizColumns = `
		id "id",
		title "title",
		topic "topic",
		difficulty "difficulty",
		questions "questions",
		created_at "created_at",
		updated_at "updated_at"`

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.DB
type QuizDatabaseAdapter struct {
	db DBTX
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

func toModelQuiz(q *domain.Quiz) *models.Quiz {
	if q == nil {
		return nil
	}
	return &models.Quiz{
		ID:         q.ID,
		Title:      q.Title,
		Topic:      q.Topic,
		Difficulty: string(q.Difficulty),
		Questions:  models.NewJSONColumn(q.Questions),
		CreatedAt:  q.CreatedAt,
		UpdatedAt:  q.UpdatedAt,
	}
}

func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	if m == nil {
		return nil
	}
	questions := m.Questions.V
	if questions == nil {
		questions = []domain.Question{}
	}
	return &domain.Quiz{
		ID:         m.ID,
		Title:      m.Title,
		Topic:      m.Topic,
		Difficulty: domain.Difficulty(m.Difficulty),
		Questions:  questions,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// CreateQuiz assigns a ULID and timestamps, then inserts the quiz.
func (a *QuizDatabaseAdapter) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	if quiz == nil {
		return domain.NewInvalidInputError("cannot save nil quiz")
	}
	row := toModelQuiz(quiz)
	now := time.Now().UTC()
	row.ID = util.NewULID()
	row.CreatedAt = now
	row.UpdatedAt = now

	query := `INSERT INTO quizzes (id, title, topic, difficulty, questions, created_at, updated_at)
	VALUES (:id, :title, :topic, :difficulty, :questions, :created_at, :updated_at)`

	if _, err := GetExecutor(ctx, a.db).NamedExecContext(ctx, query, row); err != nil {
		return domain.NewPersistenceError("create quiz", err)
	}
	quiz.ID = row.ID
	quiz.CreatedAt = row.CreatedAt
	quiz.UpdatedAt = row.UpdatedAt
	return nil
}

// ListQuizzes returns up to limit quizzes, newest first.
func (a *QuizDatabaseAdapter) ListQuizzes(ctx context.Context, limit int) ([]*domain.Quiz, error) {
	exec := GetExecutor(ctx, a.db)
	query := fmt.Sprintf(`SELECT %s
	FROM quizzes
	ORDER BY created_at DESC
	%s`, quizColumns, limitClause(exec.DriverName()))

	var rows []models.Quiz
	if err := selectNamed(ctx, exec, &rows, query, map[string]interface{}{"row_limit": limit}); err != nil {
		return nil, domain.NewPersistenceError("list quizzes", err)
	}
	out := make([]*domain.Quiz, 0, len(rows))
	for i := range rows {
		out = append(out, toDomainQuiz(&rows[i]))
	}
	return out, nil
}

// GetQuiz returns a *domain.NotFoundError for an unknown id.
func (a *QuizDatabaseAdapter) GetQuiz(ctx context.Context, id string) (*domain.Quiz, error) {
	query := fmt.Sprintf(`SELECT %s
	FROM quizzes
	WHERE id = :id`, quizColumns)

	var row models.Quiz
	err := getNamed(ctx, GetExecutor(ctx, a.db), &row, query, map[string]interface{}{"id": id})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("quiz", id)
		}
		return nil, domain.NewPersistenceError("get quiz", err)
	}
	return toDomainQuiz(&row), nil
}

// UpdateQuiz replaces title and questions wholesale.
func (a *QuizDatabaseAdapter) UpdateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	if quiz == nil {
		return domain.NewInvalidInputError("cannot update nil quiz")
	}
	row := toModelQuiz(quiz)
	row.UpdatedAt = time.Now().UTC()

	query := `UPDATE quizzes SET
		title = :title,
		questions = :questions,
		updated_at = :updated_at
	WHERE id = :id`

	res, err := GetExecutor(ctx, a.db).NamedExecContext(ctx, query, row)
	if err != nil {
		return domain.NewPersistenceError("update quiz", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.NewPersistenceError("update quiz", err)
	}
	if n == 0 {
		return domain.NewNotFoundError("quiz", quiz.ID)
	}
	quiz.UpdatedAt = row.UpdatedAt
	return nil
}

// DeleteQuiz removes the quiz. Its past results are kept.
func (a *QuizDatabaseAdapter) DeleteQuiz(ctx context.Context, id string) error {
	exec := GetExecutor(ctx, a.db)
	q, args, err := exec.BindNamed(`DELETE FROM quizzes WHERE id = :id`, map[string]interface{}{"id": id})
	if err != nil {
		return domain.NewPersistenceError("delete quiz", err)
	}
	res, err := exec.ExecContext(ctx, q, args...)
	if err != nil {
		return domain.NewPersistenceError("delete quiz", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.NewPersistenceError("delete quiz", err)
	}
	if n == 0 {
		return domain.NewNotFoundError("quiz", id)
	}
	return nil
}
