package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"quizforge/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLoader struct {
	quiz *domain.Quiz
	err  error
}

func (s stubLoader) LoadQuiz(_ context.Context, _ string) (*domain.Quiz, error) {
	return s.quiz, s.err
}

type stubRecorder struct {
	mu      sync.Mutex
	err     error
	results []domain.QuizResult
}

func (s *stubRecorder) CreateResult(_ context.Context, r *domain.QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	r.ID = "res-1"
	s.results = append(s.results, *r)
	return nil
}

func sampleQuiz() *domain.Quiz {
	return &domain.Quiz{
		ID:    "q-1",
		Title: "Basics",
		Topic: "General",
		Questions: []domain.Question{
			{ID: 1, Question: "Capital of France?", Options: []string{"Paris", "Rome"}, Answer: "Paris", Explanation: "Seine"},
			{ID: 2, Question: "2+2?", Options: []string{"3", "4"}, Answer: "4"},
			{ID: 3, Question: "Largest planet?", Options: []string{"Mars", "Jupiter"}, Answer: "Jupiter"},
		},
	}
}

func readyEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	e := New(opts)
	require.NoError(t, e.Load(context.Background(), stubLoader{quiz: sampleQuiz()}, "q-1"))
	return e
}

func TestLoad_Ready(t *testing.T) {
	e := readyEngine(t, Options{ID: "s1"})
	snap := e.Snapshot()

	assert.Equal(t, PhaseReady, snap.Phase)
	assert.Equal(t, 0, snap.CurrentIndex)
	assert.Equal(t, []int{1}, snap.Visited)
	assert.Equal(t, 600, snap.TimeRemaining)
	assert.Equal(t, "q-1", snap.QuizID)
}

func TestLoad_NotFound(t *testing.T) {
	tests := []struct {
		name   string
		loader stubLoader
	}{
		{"missing", stubLoader{err: domain.NewNotFoundError("quiz", "nope")}},
		{"nil quiz", stubLoader{}},
		{"no questions", stubLoader{quiz: &domain.Quiz{ID: "nope"}}},
		{"store failure", stubLoader{err: errors.New("connection refused")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(Options{})
			err := e.Load(context.Background(), tt.loader, "nope")
			require.Error(t, err)
			assert.Equal(t, PhaseNotFound, e.Phase())

			_, err = e.SelectOption(0)
			assert.ErrorIs(t, err, ErrNotReady)
		})
	}
}

func TestLoad_Twice(t *testing.T) {
	e := readyEngine(t, Options{})
	err := e.Load(context.Background(), stubLoader{quiz: sampleQuiz()}, "q-1")
	assert.ErrorIs(t, err, ErrAlreadyLoaded)
}

func TestJumpTo_OutOfRangeLeavesState(t *testing.T) {
	e := readyEngine(t, Options{})
	require.NoError(t, e.JumpTo(1))

	for _, idx := range []int{-1, 3, 99} {
		assert.ErrorIs(t, e.JumpTo(idx), ErrIndexOutOfRange)
	}
	snap := e.Snapshot()
	assert.Equal(t, 1, snap.CurrentIndex)
	assert.Equal(t, []int{1, 2}, snap.Visited)
}

func TestPrev_NoopAtStart(t *testing.T) {
	e := readyEngine(t, Options{})
	require.NoError(t, e.Prev())
	assert.Equal(t, 0, e.Snapshot().CurrentIndex)
}

func TestSelectOption_OverwritesInNormalMode(t *testing.T) {
	e := readyEngine(t, Options{})

	fb, err := e.SelectOption(1)
	require.NoError(t, err)
	assert.Nil(t, fb)
	_, err = e.SelectOption(0)
	require.NoError(t, err)

	assert.Equal(t, domain.AnswerMap{1: 0}, e.Snapshot().Answers)
}

func TestSelectOption_OutOfRange(t *testing.T) {
	e := readyEngine(t, Options{})
	_, err := e.SelectOption(2)
	assert.ErrorIs(t, err, ErrOptionOutOfRange)
	assert.Empty(t, e.Snapshot().Answers)
}

func TestNext_FinishesFromLastQuestion(t *testing.T) {
	rec := &stubRecorder{}
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	e := readyEngine(t, Options{ID: "s1", Recorder: rec, Now: func() time.Time { return now }})
	ctx := context.Background()

	_, err := e.SelectOption(0)
	require.NoError(t, err)
	h, err := e.Next(ctx)
	require.NoError(t, err)
	assert.Nil(t, h)
	_, err = e.SelectOption(0)
	require.NoError(t, err)
	_, err = e.Next(ctx)
	require.NoError(t, err)

	h, err = e.Next(ctx)
	require.NoError(t, err)
	require.NotNil(t, h)

	assert.Equal(t, PhaseDone, e.Phase())
	assert.True(t, h.ResultSaved)
	assert.Equal(t, "res-1", h.Result.ID)
	assert.Equal(t, 1, h.Result.Score)
	assert.Equal(t, 3, h.Result.TotalQuestions)
	assert.Equal(t, now, h.Result.CreatedAt)
	require.Len(t, h.Result.WrongAnswers, 2)
	assert.Equal(t, "Skipped", h.Result.WrongAnswers[1].UserAnswer)

	require.Len(t, rec.results, 1)
	assert.Equal(t, "General", rec.results[0].Topic)

	got, err := e.Handoff()
	require.NoError(t, err)
	assert.Same(t, h, got)
}

func TestSubmit_NonReentrant(t *testing.T) {
	rec := &stubRecorder{}
	e := readyEngine(t, Options{Recorder: rec})

	_, err := e.Submit(context.Background())
	require.NoError(t, err)
	_, err = e.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSessionDone)
	_, err = e.Next(context.Background())
	assert.ErrorIs(t, err, ErrSessionDone)
	assert.Len(t, rec.results, 1)
}

func TestSubmit_ConcurrentCallsPersistOnce(t *testing.T) {
	rec := &stubRecorder{}
	e := readyEngine(t, Options{Recorder: rec})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = e.Submit(context.Background())
		}()
	}
	wg.Wait()
	assert.Len(t, rec.results, 1)
}

func TestSubmit_RecorderFailureIsNotFatal(t *testing.T) {
	rec := &stubRecorder{err: errors.New("disk full")}
	e := readyEngine(t, Options{Recorder: rec})

	h, err := e.Submit(context.Background())
	require.NoError(t, err)
	assert.False(t, h.ResultSaved)
	assert.Equal(t, PhaseDone, e.Phase())
}

func TestSubmit_CustomQuizIsNotPersisted(t *testing.T) {
	rec := &stubRecorder{}
	e := New(Options{Recorder: rec})
	require.NoError(t, e.Load(context.Background(), stubLoader{quiz: sampleQuiz()}, domain.CustomQuizID))

	h, err := e.Submit(context.Background())
	require.NoError(t, err)
	assert.False(t, h.ResultSaved)
	assert.Empty(t, rec.results)
	assert.Equal(t, domain.CustomQuizID, h.QuizID)
}

func TestInteractive_FeedbackAndStreak(t *testing.T) {
	pulses := make(chan Pulse, 8)
	e := readyEngine(t, Options{Interactive: true, Pulses: pulses})
	ctx := context.Background()

	fb, err := e.SelectOption(0)
	require.NoError(t, err)
	assert.True(t, fb.Correct)
	assert.Equal(t, "Seine", fb.Explanation)

	_, err = e.SelectOption(1)
	assert.ErrorIs(t, err, ErrFeedbackLocked)
	assert.Equal(t, domain.AnswerMap{1: 0}, e.Snapshot().Answers)

	_, err = e.Next(ctx)
	require.NoError(t, err)
	assert.Nil(t, e.Snapshot().Feedback)

	fb, err = e.SelectOption(1)
	require.NoError(t, err)
	assert.True(t, fb.Correct)
	assert.Equal(t, 2, e.Snapshot().Streak)

	_, err = e.Next(ctx)
	require.NoError(t, err)
	fb, err = e.SelectOption(0)
	require.NoError(t, err)
	assert.False(t, fb.Correct)
	assert.Equal(t, "Jupiter", fb.CorrectAnswer)

	snap := e.Snapshot()
	assert.Equal(t, 0, snap.Streak)
	assert.Equal(t, []domain.Flashcard{{Front: "Largest planet?", Back: "Jupiter"}}, snap.FlashcardQueue)

	close(pulses)
	var got []Pulse
	for p := range pulses {
		got = append(got, p)
	}
	assert.Equal(t, []Pulse{
		{QuestionID: 1, Correct: true, Streak: 1},
		{QuestionID: 2, Correct: true, Streak: 2},
		{QuestionID: 3, Correct: false, Streak: 0},
	}, got)
}

func TestInteractive_StreakResetsFromThree(t *testing.T) {
	quiz := sampleQuiz()
	quiz.Questions = append(quiz.Questions,
		domain.Question{ID: 4, Question: "Boiling point of water?", Options: []string{"90", "100"}, Answer: "100"})
	e := New(Options{Interactive: true})
	require.NoError(t, e.Load(context.Background(), stubLoader{quiz: quiz}, "q-1"))
	ctx := context.Background()

	for i, option := range []int{0, 1, 1} {
		fb, err := e.SelectOption(option)
		require.NoError(t, err)
		require.True(t, fb.Correct)
		assert.Equal(t, i+1, e.Snapshot().Streak)
		_, err = e.Next(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, e.Snapshot().Streak)

	fb, err := e.SelectOption(0)
	require.NoError(t, err)
	assert.False(t, fb.Correct)
	assert.Equal(t, 0, e.Snapshot().Streak)
}

func TestInteractive_JumpToCurrentKeepsLock(t *testing.T) {
	e := readyEngine(t, Options{Interactive: true})

	fb, err := e.SelectOption(1)
	require.NoError(t, err)
	require.False(t, fb.Correct)

	require.NoError(t, e.JumpTo(0))
	snap := e.Snapshot()
	require.NotNil(t, snap.Feedback, "staying on the question keeps its feedback")

	_, err = e.SelectOption(0)
	assert.ErrorIs(t, err, ErrFeedbackLocked)

	snap = e.Snapshot()
	assert.Equal(t, domain.AnswerMap{1: 1}, snap.Answers)
	assert.Equal(t, 0, snap.Streak)
	assert.Len(t, snap.FlashcardQueue, 1)

	// Navigating away and back unlocks the question.
	require.NoError(t, e.JumpTo(1))
	require.NoError(t, e.JumpTo(0))
	assert.Nil(t, e.Snapshot().Feedback)
	_, err = e.SelectOption(0)
	assert.NoError(t, err)
}

func TestInteractive_QueueDedupedByFront(t *testing.T) {
	e := readyEngine(t, Options{Interactive: true})

	_, err := e.SelectOption(1)
	require.NoError(t, err)
	require.NoError(t, e.JumpTo(2))
	require.NoError(t, e.JumpTo(0))
	_, err = e.SelectOption(1)
	require.NoError(t, err)

	assert.Len(t, e.Snapshot().FlashcardQueue, 1)
}

func TestInteractive_HandoffCarriesQueue(t *testing.T) {
	e := readyEngine(t, Options{Interactive: true})
	_, err := e.SelectOption(1)
	require.NoError(t, err)

	h, err := e.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Flashcard{{Front: "Capital of France?", Back: "Paris"}}, h.Flashcards)
}

func TestInteractive_PulseDoesNotBlock(t *testing.T) {
	pulses := make(chan Pulse)
	e := readyEngine(t, Options{Interactive: true, Pulses: pulses})

	done := make(chan struct{})
	go func() {
		_, _ = e.SelectOption(0)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("SelectOption blocked on pulse channel")
	}
}

func TestToggleFlag(t *testing.T) {
	e := readyEngine(t, Options{})

	flagged, err := e.ToggleFlag()
	require.NoError(t, err)
	assert.True(t, flagged)
	assert.Equal(t, []int{1}, e.Snapshot().Flagged)

	flagged, err = e.ToggleFlag()
	require.NoError(t, err)
	assert.False(t, flagged)
	assert.Empty(t, e.Snapshot().Flagged)
}

func TestSnapshot_StatusPrecedence(t *testing.T) {
	quiz := sampleQuiz()
	quiz.Questions = append(quiz.Questions,
		domain.Question{ID: 4, Question: "Q4", Options: []string{"a", "b"}, Answer: "a"},
		domain.Question{ID: 5, Question: "Q5", Options: []string{"a", "b"}, Answer: "a"},
	)
	e := New(Options{})
	require.NoError(t, e.Load(context.Background(), stubLoader{quiz: quiz}, "q-1"))

	// Q1 answered and flagged, Q2 answered, Q3 visited only, Q4 current.
	_, err := e.SelectOption(0)
	require.NoError(t, err)
	_, err = e.ToggleFlag()
	require.NoError(t, err)
	require.NoError(t, e.JumpTo(1))
	_, err = e.SelectOption(1)
	require.NoError(t, err)
	require.NoError(t, e.JumpTo(2))
	require.NoError(t, e.JumpTo(3))

	assert.Equal(t, []QuestionStatus{
		StatusFlagged, StatusAnswered, StatusVisited, StatusCurrent, StatusUnvisited,
	}, e.Snapshot().Statuses)
}

func TestTick_FloorsAtZeroWithoutSubmitting(t *testing.T) {
	e := New(Options{TimeLimit: 2 * time.Second})
	require.NoError(t, e.Load(context.Background(), stubLoader{quiz: sampleQuiz()}, "q-1"))

	for _, want := range []int{1, 0, 0} {
		remaining, ok := e.Tick()
		assert.True(t, ok)
		assert.Equal(t, want, remaining)
	}
	assert.Equal(t, PhaseReady, e.Phase())

	_, err := e.SelectOption(0)
	assert.NoError(t, err)
}

func TestTick_StopsAfterDone(t *testing.T) {
	e := readyEngine(t, Options{})
	_, err := e.Submit(context.Background())
	require.NoError(t, err)

	_, ok := e.Tick()
	assert.False(t, ok)
}

func TestRunTimer_StopsAtZero(t *testing.T) {
	e := New(Options{TimeLimit: 3 * time.Second})
	require.NoError(t, e.Load(context.Background(), stubLoader{quiz: sampleQuiz()}, "q-1"))

	done := make(chan struct{})
	go func() {
		RunTimer(context.Background(), e, time.Millisecond)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not stop")
	}
	assert.Equal(t, 0, e.Snapshot().TimeRemaining)
	assert.Equal(t, PhaseReady, e.Phase())
}

func TestRunTimer_StopsOnCancel(t *testing.T) {
	e := readyEngine(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		RunTimer(ctx, e, time.Hour)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer ignored cancellation")
	}
}

func TestHandoff_ClaimOnce(t *testing.T) {
	e := readyEngine(t, Options{})
	_, err := e.Handoff()
	assert.ErrorIs(t, err, ErrNotReady)

	h, err := e.Submit(context.Background())
	require.NoError(t, err)

	require.NoError(t, h.Claim())
	assert.True(t, h.Claimed())
	assert.ErrorIs(t, h.Claim(), ErrHandoffClaimed)
}
