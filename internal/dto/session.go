package dto

import (
	"quizforge/internal/domain"
	"quizforge/internal/session"
)

// StartSessionRequest starts a play session for a stored quiz or "custom".
// @Description Request body for starting a quiz session
type StartSessionRequest struct {
	QuizID      string `json:"quizId" example:"01HZX3K8Q6V7N2C4B5M9P0R1ST"`
	Interactive bool   `json:"interactive"`
	// TimeLimitSeconds overrides the configured countdown.
	TimeLimitSeconds int `json:"timeLimitSeconds,omitempty"`
}

// SelectOptionRequest records an answer for the current question.
type SelectOptionRequest struct {
	OptionIndex int `json:"optionIndex"`
}

// JumpRequest moves the cursor to a question index.
type JumpRequest struct {
	Index int `json:"index"`
}

// SessionResponse is the render state of a session. Answers are revealed
// only once the session is done.
// @Description Quiz session state
type SessionResponse struct {
	ID             string              `json:"id"`
	QuizID         string              `json:"quizId"`
	Title          string              `json:"title"`
	Topic          string              `json:"topic"`
	Phase          string              `json:"phase"`
	Questions      []QuestionDTO       `json:"questions"`
	CurrentIndex   int                 `json:"currentIndex"`
	Answers        map[int]int         `json:"answers"`
	Flagged        []int               `json:"flagged"`
	Visited        []int               `json:"visited"`
	Statuses       []string            `json:"statuses"`
	TimeRemaining  int                 `json:"timeRemaining"`
	Interactive    bool                `json:"interactive"`
	Feedback       *session.Feedback   `json:"feedback,omitempty"`
	Streak         int                 `json:"streak"`
	FlashcardQueue []domain.Flashcard  `json:"flashcardQueue"`
	Result         *QuizResultResponse `json:"result,omitempty"`
}

// FlagResponse reports the flag state of the current question.
type FlagResponse struct {
	QuestionID int  `json:"questionId"`
	Flagged    bool `json:"flagged"`
}

// ToSessionResponse maps an engine snapshot.
func ToSessionResponse(s session.Snapshot) *SessionResponse {
	done := s.Phase == session.PhaseDone
	statuses := make([]string, len(s.Statuses))
	for i, st := range s.Statuses {
		statuses[i] = string(st)
	}
	answers := make(map[int]int, len(s.Answers))
	for k, v := range s.Answers {
		answers[k] = v
	}
	return &SessionResponse{
		ID:             s.ID,
		QuizID:         s.QuizID,
		Title:          s.Title,
		Topic:          s.Topic,
		Phase:          string(s.Phase),
		Questions:      ToQuestionDTOs(s.Questions, done),
		CurrentIndex:   s.CurrentIndex,
		Answers:        answers,
		Flagged:        s.Flagged,
		Visited:        s.Visited,
		Statuses:       statuses,
		TimeRemaining:  s.TimeRemaining,
		Interactive:    s.Interactive,
		Feedback:       s.Feedback,
		Streak:         s.Streak,
		FlashcardQueue: s.FlashcardQueue,
	}
}
