package models

import (
	"time"

	"quizforge/internal/domain"
)

// Quiz is the quizzes row. Questions live in a JSON column.
type Quiz struct {
	ID         string                        `db:"id"`
	Title      string                        `db:"title"`
	Topic      string                        `db:"topic"`
	Difficulty string                        `db:"difficulty"`
	Questions  JSONColumn[[]domain.Question] `db:"questions"`
	CreatedAt  time.Time                     `db:"created_at"`
	UpdatedAt  time.Time                     `db:"updated_at"`
}

// FlashcardSet is the flashcard_sets row.
type FlashcardSet struct {
	ID        string                         `db:"id"`
	Topic     string                         `db:"topic"`
	Cards     JSONColumn[[]domain.Flashcard] `db:"cards"`
	CreatedAt time.Time                      `db:"created_at"`
}

// QuizResult is the quiz_results row.
type QuizResult struct {
	ID             string                           `db:"id"`
	QuizID         string                           `db:"quiz_id"`
	Topic          string                           `db:"topic"`
	Score          int                              `db:"score"`
	TotalQuestions int                              `db:"total_questions"`
	WrongAnswers   JSONColumn[[]domain.WrongAnswer] `db:"wrong_answers"`
	CreatedAt      time.Time                        `db:"created_at"`
}
