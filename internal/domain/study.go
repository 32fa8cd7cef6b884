package domain

import "time"

// Flashcard is a single front/back review card.
type Flashcard struct {
	Front string `json:"front" yaml:"front"`
	Back  string `json:"back" yaml:"back"`
}

// DefaultFlashcardTopic is used when a set is saved without a topic.
const DefaultFlashcardTopic = "Quiz Review"

// FlashcardSet is a persisted group of cards for one topic.
type FlashcardSet struct {
	ID        string      `json:"id"`
	Topic     string      `json:"topic"`
	Cards     []Flashcard `json:"cards"`
	CreatedAt time.Time   `json:"createdAt"`
}

// WrongAnswer records one incorrect or skipped question of a result.
type WrongAnswer struct {
	Question      string `json:"question"`
	CorrectAnswer string `json:"correctAnswer"`
	UserAnswer    string `json:"userAnswer"`
}

// QuizResult is an append-only record of one completed session.
type QuizResult struct {
	ID             string        `json:"id"`
	QuizID         string        `json:"quizId"`
	Topic          string        `json:"topic"`
	Score          int           `json:"score"`
	TotalQuestions int           `json:"totalQuestions"`
	WrongAnswers   []WrongAnswer `json:"wrongAnswers"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// QuizAnalysis is the remote feedback for a finished session.
type QuizAnalysis struct {
	Score      int         `json:"score"`
	Total      int         `json:"total"`
	Feedback   string      `json:"feedback"`
	Flashcards []Flashcard `json:"flashcards"`
}

// WeakArea is a derived per-topic accuracy summary.
type WeakArea struct {
	Topic        string `json:"topic"`
	Accuracy     int    `json:"accuracy"`
	MistakeCount int    `json:"mistakeCount"`
	LastMistake  string `json:"lastMistake"`
	LastQuizID   string `json:"lastQuizId"`
}
