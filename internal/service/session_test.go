package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeLoader struct {
	quizzes map[string]*domain.Quiz
	err     error
}

func (f *fakeLoader) LoadQuiz(_ context.Context, id string) (*domain.Quiz, error) {
	if f.err != nil {
		return nil, f.err
	}
	q, ok := f.quizzes[id]
	if !ok {
		return nil, domain.NewNotFoundError("quiz", id)
	}
	return q, nil
}

func newLoader() *fakeLoader {
	return &fakeLoader{quizzes: map[string]*domain.Quiz{
		"01HX":   {ID: "01HX", Title: "Mixed", Topic: "General", Questions: sampleQuestions()},
		"custom": {ID: "custom", Title: "Notes Analysis", Topic: "Imported Content", Questions: sampleQuestions()},
	}}
}

func TestSessionService_StartAndPlay(t *testing.T) {
	results := new(MockResultRepository)
	svc := NewSessionService(newLoader(), results, time.Minute)
	t.Cleanup(svc.Close)
	ctx := context.Background()

	resp, err := svc.StartSession(ctx, &dto.StartSessionRequest{QuizID: "01HX"})
	require.NoError(t, err)
	assert.Equal(t, string(session.PhaseReady), resp.Phase)
	assert.Equal(t, 60, resp.TimeRemaining)
	assert.Empty(t, resp.Questions[0].Answer, "answers are hidden while playing")

	_, err = svc.SelectOption(ctx, resp.ID, 0)
	require.NoError(t, err)

	flag, err := svc.ToggleFlag(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, flag.QuestionID)
	assert.True(t, flag.Flagged)

	resp, err = svc.Next(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.CurrentIndex)

	resp, err = svc.Prev(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.CurrentIndex)

	_, err = svc.JumpTo(ctx, resp.ID, 9)
	assert.ErrorIs(t, err, session.ErrIndexOutOfRange)

	results.On("CreateResult", mock.Anything, mock.MatchedBy(func(r *domain.QuizResult) bool {
		return r.QuizID == "01HX" && r.Score == 1 && r.TotalQuestions == 2
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.QuizResult).ID = "res-1"
	}).Return(nil).Once()

	resp, err = svc.Submit(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, string(session.PhaseDone), resp.Phase)
	require.NotNil(t, resp.Result)
	assert.Equal(t, "res-1", resp.Result.ID)
	assert.True(t, resp.Result.Saved)
	assert.Equal(t, "Paris", resp.Questions[0].Answer)
	require.Len(t, resp.Result.WrongAnswers, 1)
	assert.Equal(t, "Skipped", resp.Result.WrongAnswers[0].UserAnswer)

	_, err = svc.Submit(ctx, resp.ID)
	assert.ErrorIs(t, err, session.ErrSessionDone)
	results.AssertExpectations(t)
}

func TestSessionService_StartUnknownQuiz(t *testing.T) {
	svc := NewSessionService(newLoader(), nil, time.Minute)
	t.Cleanup(svc.Close)

	_, err := svc.StartSession(context.Background(), &dto.StartSessionRequest{QuizID: "01ZZ"})
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestSessionService_StartLoaderFailure(t *testing.T) {
	svc := NewSessionService(&fakeLoader{err: errors.New("db down")}, nil, time.Minute)
	t.Cleanup(svc.Close)

	_, err := svc.StartSession(context.Background(), &dto.StartSessionRequest{QuizID: "01HX"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestSessionService_UnknownSession(t *testing.T) {
	svc := NewSessionService(newLoader(), nil, time.Minute)
	t.Cleanup(svc.Close)

	_, err := svc.GetSession(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = svc.Handoff("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionService_CustomQuizNotPersisted(t *testing.T) {
	results := new(MockResultRepository)
	svc := NewSessionService(newLoader(), results, time.Minute)
	t.Cleanup(svc.Close)
	ctx := context.Background()

	resp, err := svc.StartSession(ctx, &dto.StartSessionRequest{QuizID: domain.CustomQuizID})
	require.NoError(t, err)
	resp, err = svc.Submit(ctx, resp.ID)
	require.NoError(t, err)
	require.NotNil(t, resp.Result)
	assert.False(t, resp.Result.Saved)
	results.AssertNotCalled(t, "CreateResult", mock.Anything, mock.Anything)
}

func TestSessionService_RecorderFailureStillFinishes(t *testing.T) {
	results := new(MockResultRepository)
	results.On("CreateResult", mock.Anything, mock.Anything).
		Return(domain.NewPersistenceError("create result", errors.New("locked")))
	svc := NewSessionService(newLoader(), results, time.Minute)
	t.Cleanup(svc.Close)
	ctx := context.Background()

	resp, err := svc.StartSession(ctx, &dto.StartSessionRequest{QuizID: "01HX"})
	require.NoError(t, err)
	resp, err = svc.Submit(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, string(session.PhaseDone), resp.Phase)
	assert.False(t, resp.Result.Saved)
}

func TestSessionService_TimerCountsDown(t *testing.T) {
	svc := NewSessionService(newLoader(), nil, time.Minute, WithTickInterval(5*time.Millisecond))
	t.Cleanup(svc.Close)
	ctx := context.Background()

	resp, err := svc.StartSession(ctx, &dto.StartSessionRequest{QuizID: "01HX", TimeLimitSeconds: 2})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		r, err := svc.GetSession(ctx, resp.ID)
		return err == nil && r.TimeRemaining == 0
	}, time.Second, 5*time.Millisecond)

	r, err := svc.GetSession(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, string(session.PhaseReady), r.Phase, "reaching zero never submits")
}

func TestSessionService_EvictsOldest(t *testing.T) {
	svc := NewSessionService(newLoader(), nil, time.Minute, WithMaxSessions(1))
	t.Cleanup(svc.Close)
	ctx := context.Background()

	first, err := svc.StartSession(ctx, &dto.StartSessionRequest{QuizID: "01HX"})
	require.NoError(t, err)
	second, err := svc.StartSession(ctx, &dto.StartSessionRequest{QuizID: "01HX"})
	require.NoError(t, err)

	_, err = svc.GetSession(ctx, first.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = svc.GetSession(ctx, second.ID)
	assert.NoError(t, err)
}
