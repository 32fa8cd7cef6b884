package session

import (
	"sync/atomic"

	"quizforge/internal/domain"
)

// Handoff carries a finished session into analysis. It can be claimed once;
// the analysis that claims it owns the data from then on.
type Handoff struct {
	SessionID  string
	QuizID     string
	Title      string
	Topic      string
	Questions  []domain.Question
	Answers    domain.AnswerMap
	Flashcards []domain.Flashcard
	Result     domain.QuizResult
	// ResultSaved reports whether the result reached the store.
	ResultSaved bool

	claimed atomic.Bool
}

// Claim marks the handoff consumed. Only the first call succeeds.
func (h *Handoff) Claim() error {
	if !h.claimed.CompareAndSwap(false, true) {
		return ErrHandoffClaimed
	}
	return nil
}

// Claimed reports whether analysis already took the handoff.
func (h *Handoff) Claimed() bool { return h.claimed.Load() }
