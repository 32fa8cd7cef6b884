package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"quizforge/internal/adapter/llm"
	"quizforge/internal/config"
	"quizforge/internal/dto"
	"quizforge/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const generatedQuiz = "```json\n" + `[
  {"question": "Closest star to Earth?", "options": ["Sun", "Sirius"], "answer": "Sun", "explanation": "8 light minutes away."},
  {"question": "Largest planet?", "options": ["Mars", "Jupiter"], "answer": "Jupiter"}
]` + "\n```"

const generatedAnalysis = `{"feedback": "Brush up on the planets.", "flashcards": [{"front": "Largest planet?", "back": "Jupiter, by far."}, {"front": "Smallest planet?", "back": "Mercury"}]}`

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Level: "error"}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Env: "test",
		DB: config.DBConfig{
			Driver: "sqlite",
			DSN:    "file:" + filepath.Join(t.TempDir(), "quizforge.db"),
		},
		Server: config.ServerConfig{BodyLimit: 4 * 1024 * 1024},
		Redis:  config.RedisConfig{ScratchTTL: time.Hour},
		LLM: config.LLMConfig{
			Provider: "mock",
			Retry:    config.RetryConfig{MaxAttempts: 1, InitialWait: time.Millisecond},
		},
		Quiz: config.QuizConfig{
			MaxSourceChars:     15000,
			DefaultTimeLimit:   time.Minute,
			ListLimit:          20,
			RecentResultsLimit: 50,
			MaxQuestionCount:   50,
		},
	}
}

func call(t *testing.T, srv *fiber.App, method, path string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestStudyLoop(t *testing.T) {
	completer := llm.NewMockCompleter(
		llm.MockResponse{Content: generatedQuiz},
		llm.MockResponse{Content: generatedAnalysis},
	)
	c, err := Build(context.Background(), testConfig(t), WithCompleter(completer))
	require.NoError(t, err)
	t.Cleanup(c.Close)
	srv := NewServer(c)

	var quiz dto.QuizResponse
	status := call(t, srv, http.MethodPost, "/api/quizzes/generate",
		dto.GenerateQuizRequest{Topic: "Space", Count: 2, Difficulty: "easy"}, &quiz)
	require.Equal(t, http.StatusCreated, status)
	require.Len(t, quiz.Questions, 2)
	assert.Equal(t, "Space", quiz.Topic)
	assert.Len(t, quiz.ID, 26)
	assert.Equal(t, 2, quiz.Questions[1].ID)

	var list dto.QuizListResponse
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/api/quizzes", nil, &list))
	require.Len(t, list.Quizzes, 1)

	var sess dto.SessionResponse
	status = call(t, srv, http.MethodPost, "/api/sessions",
		dto.StartSessionRequest{QuizID: quiz.ID, Interactive: true}, &sess)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "ready", sess.Phase)
	base := "/api/sessions/" + sess.ID

	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, base+"/answer", dto.SelectOptionRequest{OptionIndex: 0}, &sess))
	require.NotNil(t, sess.Feedback)
	assert.True(t, sess.Feedback.Correct)
	assert.Equal(t, 1, sess.Streak)

	// A locked interactive answer cannot be changed.
	assert.Equal(t, http.StatusConflict, call(t, srv, http.MethodPost, base+"/answer", dto.SelectOptionRequest{OptionIndex: 1}, nil))

	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, base+"/next", nil, &sess))
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, base+"/answer", dto.SelectOptionRequest{OptionIndex: 0}, &sess))
	assert.False(t, sess.Feedback.Correct)
	assert.Equal(t, 0, sess.Streak)
	require.Len(t, sess.FlashcardQueue, 1)

	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, base+"/next", nil, &sess))
	assert.Equal(t, "done", sess.Phase)
	require.NotNil(t, sess.Result)
	assert.Equal(t, 1, sess.Result.Score)
	assert.True(t, sess.Result.Saved)

	var report dto.AnalysisResponse
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, base+"/analysis", nil, &report))
	assert.Equal(t, "Brush up on the planets.", report.Feedback)
	require.Len(t, report.Flashcards, 2)
	assert.Equal(t, "Jupiter", report.Flashcards[0].Back, "the session card wins over the generated one")
	assert.Equal(t, "Smallest planet?", report.Flashcards[1].Front)

	var last dto.AnalysisResponse
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/api/results/last", nil, &last))
	assert.Equal(t, sess.ID, last.SessionID)

	var weak dto.WeakAreasResponse
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/api/weak-areas", nil, &weak))
	require.Len(t, weak.WeakAreas, 1)
	assert.Equal(t, "Space", weak.WeakAreas[0].Topic)
	assert.Equal(t, 50, weak.WeakAreas[0].Accuracy)
	assert.Equal(t, "Largest planet?", weak.WeakAreas[0].LastMistake)

	var set dto.FlashcardSetResponse
	status = call(t, srv, http.MethodPost, "/api/flashcards",
		dto.SaveFlashcardsRequest{Topic: "Space", Cards: report.Flashcards}, &set)
	require.Equal(t, http.StatusCreated, status)
	assert.Len(t, set.Cards, 2)

	var dash dto.DashboardResponse
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/api/dashboard", nil, &dash))
	assert.Len(t, dash.RecentQuizzes, 1)
	assert.Len(t, dash.FlashcardSets, 1)
	assert.Len(t, dash.WeakAreas, 1)

	assert.Len(t, completer.Calls, 2)
}

func TestGuestQuizIsNotStored(t *testing.T) {
	completer := llm.NewMockCompleter(llm.MockResponse{Content: generatedQuiz})
	c, err := Build(context.Background(), testConfig(t), WithCompleter(completer))
	require.NoError(t, err)
	t.Cleanup(c.Close)
	srv := NewServer(c)

	save := false
	var quiz dto.QuizResponse
	status := call(t, srv, http.MethodPost, "/api/quizzes/generate",
		dto.GenerateQuizRequest{Mode: dto.ModeText, Text: "Notes about stars and planets.", Save: &save}, &quiz)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "custom", quiz.ID)
	assert.Equal(t, "Notes Analysis", quiz.Title)

	var list dto.QuizListResponse
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/api/quizzes", nil, &list))
	assert.Empty(t, list.Quizzes)

	var sess dto.SessionResponse
	require.Equal(t, http.StatusCreated, call(t, srv, http.MethodPost, "/api/sessions",
		dto.StartSessionRequest{QuizID: "custom"}, &sess))
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/api/sessions/"+sess.ID+"/submit", nil, &sess))
	require.NotNil(t, sess.Result)
	assert.False(t, sess.Result.Saved)
	assert.Equal(t, 2, len(sess.Result.WrongAnswers))
}

func TestGenerationFailureReturnsBadGateway(t *testing.T) {
	completer := llm.NewMockCompleter(llm.MockResponse{Content: "I cannot help with that."})
	c, err := Build(context.Background(), testConfig(t), WithCompleter(completer))
	require.NoError(t, err)
	t.Cleanup(c.Close)

	status := call(t, NewServer(c), http.MethodPost, "/api/quizzes/generate", dto.GenerateQuizRequest{Topic: "Space"}, nil)
	assert.Equal(t, http.StatusBadGateway, status)

	quizzes, err := c.Quizzes.ListQuizzes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, quizzes.Quizzes)
}
