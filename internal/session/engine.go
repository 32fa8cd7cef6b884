package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/logger"
	"quizforge/internal/scoring"

	"go.uber.org/zap"
)

// Engine holds the live state of one quiz session. All methods are safe for
// concurrent use; the store call at completion runs outside the lock while
// the engine reports PhaseFinishing.
type Engine struct {
	mu sync.Mutex

	id       string
	quizID   string
	title    string
	topic    string
	phase    Phase
	recorder ResultRecorder
	pulses   chan<- Pulse
	now      func() time.Time

	questions     []domain.Question
	current       int
	answers       domain.AnswerMap
	flagged       map[int]bool
	visited       map[int]bool
	timeLimit     int
	timeRemaining int

	interactive bool
	feedback    *Feedback
	streak      int
	queue       []domain.Flashcard

	handoff *Handoff
}

// New returns an engine in PhaseLoading.
func New(opts Options) *Engine {
	limit := opts.TimeLimit
	if limit <= 0 {
		limit = DefaultTimeLimit
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		id:          opts.ID,
		phase:       PhaseLoading,
		recorder:    opts.Recorder,
		pulses:      opts.Pulses,
		now:         now,
		answers:     domain.AnswerMap{},
		flagged:     map[int]bool{},
		visited:     map[int]bool{},
		timeLimit:   int(limit / time.Second),
		interactive: opts.Interactive,
	}
}

func (e *Engine) ID() string { return e.id }

func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Load resolves the quiz and moves to Ready, or to the terminal NotFound
// phase when the quiz is missing, empty or the lookup fails.
func (e *Engine) Load(ctx context.Context, loader QuizLoader, quizID string) error {
	e.mu.Lock()
	if e.phase != PhaseLoading {
		e.mu.Unlock()
		return ErrAlreadyLoaded
	}
	e.mu.Unlock()

	quiz, err := loader.LoadQuiz(ctx, quizID)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err == nil && (quiz == nil || len(quiz.Questions) == 0) {
		err = domain.NewNotFoundError("quiz", quizID)
	}
	if err != nil {
		e.phase = PhaseNotFound
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			return err
		}
		return fmt.Errorf("load quiz %s: %w", quizID, err)
	}

	e.quizID = quizID
	e.title = quiz.Title
	e.topic = quiz.Topic
	e.questions = quiz.Questions
	e.current = 0
	e.visited[e.questions[0].ID] = true
	e.timeRemaining = e.timeLimit
	e.phase = PhaseReady
	return nil
}

func (e *Engine) requireReadyLocked() error {
	switch e.phase {
	case PhaseReady:
		return nil
	case PhaseFinishing:
		return ErrFinishing
	case PhaseDone:
		return ErrSessionDone
	default:
		return ErrNotReady
	}
}

func (e *Engine) moveLocked(index int) {
	e.current = index
	e.visited[e.questions[index].ID] = true
	e.feedback = nil
}

// SelectOption records the chosen option for the current question. In
// interactive mode the first selection is judged immediately and further
// changes are refused until the question changes.
func (e *Engine) SelectOption(optionIndex int) (*Feedback, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireReadyLocked(); err != nil {
		return nil, err
	}
	q := e.questions[e.current]
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return nil, ErrOptionOutOfRange
	}
	if e.interactive && e.feedback != nil {
		return nil, ErrFeedbackLocked
	}

	e.answers[q.ID] = optionIndex
	if !e.interactive {
		return nil, nil
	}

	correct := q.Options[optionIndex] == q.Answer
	e.feedback = &Feedback{Correct: correct, CorrectAnswer: q.Answer, Explanation: q.Explanation}
	if correct {
		e.streak++
	} else {
		e.streak = 0
		e.enqueueLocked(scoring.MistakeCard(q))
	}
	e.emit(Pulse{QuestionID: q.ID, Correct: correct, Streak: e.streak})

	fb := *e.feedback
	return &fb, nil
}

func (e *Engine) enqueueLocked(card domain.Flashcard) {
	for _, c := range e.queue {
		if c.Front == card.Front {
			return
		}
	}
	e.queue = append(e.queue, card)
}

func (e *Engine) emit(p Pulse) {
	if e.pulses == nil {
		return
	}
	select {
	case e.pulses <- p:
	default:
	}
}

// Next advances one question. From the last question it completes the
// session and returns the handoff.
func (e *Engine) Next(ctx context.Context) (*Handoff, error) {
	e.mu.Lock()
	if err := e.requireReadyLocked(); err != nil {
		e.mu.Unlock()
		return nil, err
	}
	if e.current < len(e.questions)-1 {
		e.moveLocked(e.current + 1)
		e.mu.Unlock()
		return nil, nil
	}
	h := e.beginFinishLocked()
	e.mu.Unlock()
	return e.completeFinish(ctx, h), nil
}

// Prev retreats one question; it is a no-op on the first question.
func (e *Engine) Prev() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireReadyLocked(); err != nil {
		return err
	}
	if e.current > 0 {
		e.moveLocked(e.current - 1)
	}
	return nil
}

// JumpTo moves to index. Outside [0, N-1] state is left untouched; jumping
// to the current question is a no-op and keeps any recorded feedback.
func (e *Engine) JumpTo(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireReadyLocked(); err != nil {
		return err
	}
	if index < 0 || index >= len(e.questions) {
		return ErrIndexOutOfRange
	}
	if index != e.current {
		e.moveLocked(index)
	}
	return nil
}

// ToggleFlag flips the advisory flag of the current question.
func (e *Engine) ToggleFlag() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireReadyLocked(); err != nil {
		return false, err
	}
	id := e.questions[e.current].ID
	if e.flagged[id] {
		delete(e.flagged, id)
		return false, nil
	}
	e.flagged[id] = true
	return true, nil
}

// Tick decrements the countdown by one second while Ready, flooring at zero.
// ok is false once the engine is no longer Ready.
func (e *Engine) Tick() (remaining int, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseReady {
		return e.timeRemaining, false
	}
	if e.timeRemaining > 0 {
		e.timeRemaining--
	}
	return e.timeRemaining, true
}

// Submit completes the session from any question.
func (e *Engine) Submit(ctx context.Context) (*Handoff, error) {
	e.mu.Lock()
	if err := e.requireReadyLocked(); err != nil {
		e.mu.Unlock()
		return nil, err
	}
	h := e.beginFinishLocked()
	e.mu.Unlock()
	return e.completeFinish(ctx, h), nil
}

// beginFinishLocked freezes answers and scores the session.
func (e *Engine) beginFinishLocked() *Handoff {
	e.phase = PhaseFinishing
	e.feedback = nil

	outcome := scoring.Score(e.questions, e.answers)
	queue := make([]domain.Flashcard, len(e.queue))
	copy(queue, e.queue)

	return &Handoff{
		SessionID:  e.id,
		QuizID:     e.quizID,
		Title:      e.title,
		Topic:      e.topic,
		Questions:  e.questions,
		Answers:    e.answers.Clone(),
		Flashcards: queue,
		Result: domain.QuizResult{
			QuizID:         e.quizID,
			Topic:          e.topic,
			Score:          outcome.Score,
			TotalQuestions: outcome.Total,
			WrongAnswers:   outcome.WrongAnswers,
			CreatedAt:      e.now(),
		},
	}
}

// completeFinish persists the result best-effort and moves to Done.
// Ephemeral custom quizzes have no stable id and are not persisted.
func (e *Engine) completeFinish(ctx context.Context, h *Handoff) *Handoff {
	if e.recorder != nil && h.QuizID != domain.CustomQuizID {
		result := h.Result
		if err := e.recorder.CreateResult(ctx, &result); err != nil {
			logger.Get().Error("Failed to save quiz result",
				zap.String("session_id", h.SessionID),
				zap.String("quiz_id", h.QuizID),
				zap.Error(err))
		} else {
			h.Result = result
			h.ResultSaved = true
		}
	}

	e.mu.Lock()
	e.phase = PhaseDone
	e.handoff = h
	e.mu.Unlock()

	logger.Get().Info("Quiz session finished",
		zap.String("session_id", h.SessionID),
		zap.String("quiz_id", h.QuizID),
		zap.Int("score", h.Result.Score),
		zap.Int("total", h.Result.TotalQuestions),
		zap.Bool("result_saved", h.ResultSaved))
	return h
}

// Handoff returns the completion handoff once the session is Done.
func (e *Engine) Handoff() (*Handoff, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseDone || e.handoff == nil {
		return nil, ErrNotReady
	}
	return e.handoff, nil
}

// Snapshot is a copy of the render state.
type Snapshot struct {
	ID             string             `json:"id"`
	QuizID         string             `json:"quizId"`
	Title          string             `json:"title"`
	Topic          string             `json:"topic"`
	Phase          Phase              `json:"phase"`
	Questions      []domain.Question  `json:"questions"`
	CurrentIndex   int                `json:"currentIndex"`
	Answers        domain.AnswerMap   `json:"answers"`
	Flagged        []int              `json:"flagged"`
	Visited        []int              `json:"visited"`
	Statuses       []QuestionStatus   `json:"statuses"`
	TimeRemaining  int                `json:"timeRemaining"`
	Interactive    bool               `json:"interactive"`
	Feedback       *Feedback          `json:"feedback,omitempty"`
	Streak         int                `json:"streak"`
	FlashcardQueue []domain.Flashcard `json:"flashcardQueue"`
}

func sortedKeys(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Snapshot{
		ID:             e.id,
		QuizID:         e.quizID,
		Title:          e.title,
		Topic:          e.topic,
		Phase:          e.phase,
		Questions:      e.questions,
		CurrentIndex:   e.current,
		Answers:        e.answers.Clone(),
		Flagged:        sortedKeys(e.flagged),
		Visited:        sortedKeys(e.visited),
		Statuses:       make([]QuestionStatus, len(e.questions)),
		TimeRemaining:  e.timeRemaining,
		Interactive:    e.interactive,
		Streak:         e.streak,
		FlashcardQueue: append([]domain.Flashcard{}, e.queue...),
	}
	if e.feedback != nil {
		fb := *e.feedback
		s.Feedback = &fb
	}
	for i, q := range e.questions {
		s.Statuses[i] = statusOf(i, e.current, q, e.answers, e.flagged, e.visited)
	}
	return s
}

// Current returns the question under the cursor.
func (s Snapshot) Current() (domain.Question, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return domain.Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}
