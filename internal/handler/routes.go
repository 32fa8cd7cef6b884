package handler

import (
	"quizforge/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles the HTTP handlers mounted under /api.
type Handlers struct {
	Quiz    *QuizHandler
	Session *SessionHandler
	Study   *StudyHandler
}

// RegisterRoutes mounts every API route on api.
func RegisterRoutes(api fiber.Router, h Handlers, vm *middleware.ValidationMiddleware) {
	quizzes := api.Group("/quizzes")
	quizzes.Post("/generate", h.Quiz.GenerateQuiz)
	quizzes.Get("/", h.Quiz.ListQuizzes)
	quizzes.Get("/:id", vm.ValidateQuizID(), h.Quiz.GetQuiz)
	quizzes.Put("/:id", vm.ValidateStoredQuizID(), h.Quiz.UpdateQuiz)
	quizzes.Delete("/:id", vm.ValidateStoredQuizID(), h.Quiz.DeleteQuiz)

	sessions := api.Group("/sessions")
	sessions.Post("/", h.Session.StartSession)
	sessions.Get("/:sid", h.Session.GetSession)
	sessions.Post("/:sid/answer", h.Session.SelectOption)
	sessions.Post("/:sid/next", h.Session.Next)
	sessions.Post("/:sid/prev", h.Session.Prev)
	sessions.Post("/:sid/jump", h.Session.JumpTo)
	sessions.Post("/:sid/flag", h.Session.ToggleFlag)
	sessions.Post("/:sid/submit", h.Session.Submit)
	sessions.Get("/:sid/analysis", h.Session.Analysis)
	api.Get("/results/last", h.Session.LastResult)

	api.Post("/flashcards", h.Study.SaveFlashcards)
	api.Get("/flashcards", h.Study.ListFlashcardSets)
	api.Get("/weak-areas", h.Study.WeakAreas)
	api.Get("/dashboard", h.Study.Dashboard)
}
