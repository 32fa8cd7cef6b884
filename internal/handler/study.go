package handler

import (
	"quizforge/internal/dto"
	"quizforge/internal/service"
	"quizforge/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// StudyHandler serves flashcards and progress views.
type StudyHandler struct {
	service   service.StudyService
	validator *validation.Validator
}

func NewStudyHandler(service service.StudyService, validator *validation.Validator) *StudyHandler {
	return &StudyHandler{service: service, validator: validator}
}

// SaveFlashcards godoc
// @Summary Save a flashcard set
// @Description Blank cards are dropped and duplicates by front text are merged.
// @Tags flashcards
// @Accept json
// @Produce json
// @Param request body dto.SaveFlashcardsRequest true "Cards to save"
// @Success 201 {object} dto.FlashcardSetResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /flashcards [post]
func (h *StudyHandler) SaveFlashcards(c *fiber.Ctx) error {
	var req dto.SaveFlashcardsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if errs := h.validator.ValidateSaveFlashcardsRequest(&req); len(errs) > 0 {
		return errs
	}
	resp, err := h.service.SaveFlashcards(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListFlashcardSets godoc
// @Summary List flashcard sets
// @Tags flashcards
// @Produce json
// @Param topic query string false "Only sets of this topic"
// @Success 200 {object} dto.FlashcardSetListResponse
// @Router /flashcards [get]
func (h *StudyHandler) ListFlashcardSets(c *fiber.Ctx) error {
	resp, err := h.service.ListFlashcardSets(c.UserContext(), c.Query("topic"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// WeakAreas godoc
// @Summary Topics below the mastery threshold
// @Tags progress
// @Produce json
// @Success 200 {object} dto.WeakAreasResponse
// @Router /weak-areas [get]
func (h *StudyHandler) WeakAreas(c *fiber.Ctx) error {
	resp, err := h.service.WeakAreas(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Dashboard godoc
// @Summary Home screen data
// @Tags progress
// @Produce json
// @Success 200 {object} dto.DashboardResponse
// @Router /dashboard [get]
func (h *StudyHandler) Dashboard(c *fiber.Ctx) error {
	resp, err := h.service.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
