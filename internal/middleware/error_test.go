package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"quizforge/internal/config"
	"quizforge/internal/domain"
	"quizforge/internal/logger"
	"quizforge/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Level: "error"}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newTestApp(err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Get("/", func(c *fiber.Ctx) error { return err })
	return app
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"validation list", domain.ValidationErrors{domain.NewMissingFieldError("topic")}, http.StatusBadRequest, string(domain.CodeValidation)},
		{"single field", domain.NewFieldError("difficulty", "bad"), http.StatusBadRequest, string(domain.CodeValidation)},
		{"generation wraps validation", domain.NewGenerationError("invalid question", domain.NewFieldError("answer", "missing")), http.StatusBadGateway, string(domain.CodeGeneration)},
		{"not found", domain.NewNotFoundError("quiz", "x"), http.StatusNotFound, string(domain.CodeNotFound)},
		{"persistence", domain.NewPersistenceError("create quiz", errors.New("down")), http.StatusServiceUnavailable, string(domain.CodePersistence)},
		{"session state", domain.NewSessionStateError("finishing"), http.StatusConflict, string(domain.CodeSessionState)},
		{"invalid input", domain.NewInvalidInputError("nope"), http.StatusBadRequest, string(domain.CodeInvalidInput)},
		{"fiber error", fiber.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "HTTP_ERROR"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, string(domain.CodeInternal)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := newTestApp(tt.err).Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, resp.StatusCode)

			body, _ := io.ReadAll(resp.Body)
			var got map[string]any
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, tt.wantBody, got["code"])
		})
	}
}

func TestValidateQuizIDMiddleware(t *testing.T) {
	vm := NewValidationMiddleware(validation.NewValidator(50, 15000))
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Get("/quizzes/:id", vm.ValidateQuizID(), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(LocalQuizID).(string))
	})
	app.Delete("/quizzes/:id", vm.ValidateStoredQuizID(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/quizzes/custom", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/quizzes/not-a-ulid", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/quizzes/custom", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/quizzes/01HZX3K8Q6V7N2C4B5M9P0R1ST", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRequestLogger_RendersErrors(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(RequestLogger())
	app.Get("/", func(c *fiber.Ctx) error { return domain.NewNotFoundError("quiz", "x") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
