// Package session implements the single-user quiz session state machine:
// navigation, answer capture, interactive feedback, countdown timing and the
// one-shot handoff to analysis.
package session

import (
	"context"
	"time"

	"quizforge/internal/domain"
)

// Phase is the lifecycle stage of a session.
//
//	Loading -> Ready | NotFound
//	Ready   -> Finishing -> Done
type Phase string

const (
	PhaseLoading   Phase = "loading"
	PhaseReady     Phase = "ready"
	PhaseNotFound  Phase = "not_found"
	PhaseFinishing Phase = "finishing"
	PhaseDone      Phase = "done"
)

// DefaultTimeLimit is the countdown of a session started without one.
const DefaultTimeLimit = 600 * time.Second

var (
	ErrNotReady         = domain.NewSessionStateError("session is not ready")
	ErrAlreadyLoaded    = domain.NewSessionStateError("session was already loaded")
	ErrFinishing        = domain.NewSessionStateError("session is finishing")
	ErrSessionDone      = domain.NewSessionStateError("session is already finished")
	ErrFeedbackLocked   = domain.NewSessionStateError("answer is locked until the question changes")
	ErrIndexOutOfRange  = domain.NewInvalidInputError("question index out of range")
	ErrOptionOutOfRange = domain.NewInvalidInputError("option index out of range")
	ErrHandoffClaimed   = domain.NewSessionStateError("session results were already handed off")
)

// QuizLoader resolves a quiz id, including the "custom" scratch quiz.
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (*domain.Quiz, error)
}

// ResultRecorder persists a finished session's result.
type ResultRecorder interface {
	CreateResult(ctx context.Context, result *domain.QuizResult) error
}

// Feedback is the instant verdict shown in interactive mode.
type Feedback struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation,omitempty"`
}

// Pulse is a transient UI signal emitted after an interactive answer.
type Pulse struct {
	QuestionID int
	Correct    bool
	Streak     int
}

// Options configures a new Engine.
type Options struct {
	ID          string
	Interactive bool
	TimeLimit   time.Duration
	// Recorder persists the result at completion. Nil skips persistence.
	Recorder ResultRecorder
	// Pulses receives interactive pulses without blocking; nil disables them.
	Pulses chan<- Pulse
	Now    func() time.Time
}
