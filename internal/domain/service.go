package domain

import "context"

// QuizRepository persists quizzes. Get returns a *NotFoundError for an
// unknown id.
type QuizRepository interface {
	CreateQuiz(ctx context.Context, quiz *Quiz) error
	ListQuizzes(ctx context.Context, limit int) ([]*Quiz, error)
	GetQuiz(ctx context.Context, id string) (*Quiz, error)
	UpdateQuiz(ctx context.Context, quiz *Quiz) error
	DeleteQuiz(ctx context.Context, id string) error
}

// FlashcardRepository persists flashcard sets. An empty topic lists all sets.
type FlashcardRepository interface {
	CreateFlashcardSet(ctx context.Context, set *FlashcardSet) error
	ListFlashcardSets(ctx context.Context, topic string) ([]*FlashcardSet, error)
}

// ResultRepository persists quiz results, newest first on listing.
type ResultRepository interface {
	CreateResult(ctx context.Context, result *QuizResult) error
	ListRecentResults(ctx context.Context, limit int) ([]*QuizResult, error)
}

// TransactionManager runs fn inside a single store transaction. Repository
// calls made with the ctx passed to fn join that transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
