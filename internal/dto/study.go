package dto

import (
	"time"

	"quizforge/internal/domain"
)

// QuizResultResponse is a scored session.
type QuizResultResponse struct {
	ID             string               `json:"id,omitempty"`
	QuizID         string               `json:"quizId"`
	Topic          string               `json:"topic"`
	Score          int                  `json:"score"`
	TotalQuestions int                  `json:"totalQuestions"`
	WrongAnswers   []domain.WrongAnswer `json:"wrongAnswers"`
	Saved          bool                 `json:"saved"`
	CreatedAt      time.Time            `json:"createdAt"`
}

// AnalysisResponse is the results view: local score, remote feedback and
// the merged flashcard proposal.
// @Description Session analysis
type AnalysisResponse struct {
	SessionID  string             `json:"sessionId"`
	QuizID     string             `json:"quizId"`
	Title      string             `json:"title"`
	Topic      string             `json:"topic"`
	Result     QuizResultResponse `json:"result"`
	Questions  []QuestionDTO      `json:"questions"`
	Answers    map[int]int        `json:"answers"`
	Feedback   string             `json:"feedback"`
	Flashcards []domain.Flashcard `json:"flashcards"`
}

// SaveFlashcardsRequest persists a reviewed set of cards.
// @Description Request body for saving flashcards
type SaveFlashcardsRequest struct {
	Topic string             `json:"topic" example:"Go channels"`
	Cards []domain.Flashcard `json:"cards"`
}

// FlashcardSetResponse is one stored set.
type FlashcardSetResponse struct {
	ID        string             `json:"id"`
	Topic     string             `json:"topic"`
	Cards     []domain.Flashcard `json:"cards"`
	CreatedAt time.Time          `json:"createdAt"`
}

// FlashcardSetListResponse lists stored sets, newest first.
type FlashcardSetListResponse struct {
	Sets []FlashcardSetResponse `json:"sets"`
}

// WeakAreasResponse lists topics under the mastery threshold, weakest first.
type WeakAreasResponse struct {
	WeakAreas []domain.WeakArea `json:"weakAreas"`
}

// DashboardResponse aggregates the home screen.
type DashboardResponse struct {
	RecentQuizzes []QuizSummary          `json:"recentQuizzes"`
	FlashcardSets []FlashcardSetResponse `json:"flashcardSets"`
	WeakAreas     []domain.WeakArea      `json:"weakAreas"`
}

// ToQuizResultResponse maps a result.
func ToQuizResultResponse(r domain.QuizResult, saved bool) QuizResultResponse {
	wrong := r.WrongAnswers
	if wrong == nil {
		wrong = []domain.WrongAnswer{}
	}
	return QuizResultResponse{
		ID:             r.ID,
		QuizID:         r.QuizID,
		Topic:          r.Topic,
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		WrongAnswers:   wrong,
		Saved:          saved,
		CreatedAt:      r.CreatedAt,
	}
}

// ToFlashcardSetResponse maps a stored set.
func ToFlashcardSetResponse(s *domain.FlashcardSet) FlashcardSetResponse {
	return FlashcardSetResponse{ID: s.ID, Topic: s.Topic, Cards: s.Cards, CreatedAt: s.CreatedAt}
}
