package handler

import (
	"quizforge/internal/dto"
	"quizforge/internal/service"
	"quizforge/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// SessionHandler serves quiz play sessions and their analysis.
type SessionHandler struct {
	sessions  service.SessionService
	analysis  service.AnalysisService
	validator *validation.Validator
}

func NewSessionHandler(sessions service.SessionService, analysis service.AnalysisService, validator *validation.Validator) *SessionHandler {
	return &SessionHandler{sessions: sessions, analysis: analysis, validator: validator}
}

// StartSession godoc
// @Summary Start a quiz session
// @Tags session
// @Accept json
// @Produce json
// @Param request body dto.StartSessionRequest true "Session options"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions [post]
func (h *SessionHandler) StartSession(c *fiber.Ctx) error {
	var req dto.StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if errs := h.validator.ValidateStartSessionRequest(&req); len(errs) > 0 {
		return errs
	}
	resp, err := h.sessions.StartSession(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetSession godoc
// @Summary Get session state
// @Tags session
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{sid} [get]
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	resp, err := h.sessions.GetSession(c.UserContext(), c.Params("sid"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SelectOption godoc
// @Summary Answer the current question
// @Description In interactive mode the first answer is judged immediately and locked.
// @Tags session
// @Accept json
// @Produce json
// @Param sid path string true "Session ID"
// @Param request body dto.SelectOptionRequest true "Chosen option"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{sid}/answer [post]
func (h *SessionHandler) SelectOption(c *fiber.Ctx) error {
	var req dto.SelectOptionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	resp, err := h.sessions.SelectOption(c.UserContext(), c.Params("sid"), req.OptionIndex)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Next godoc
// @Summary Advance to the next question
// @Description On the last question this finishes the session.
// @Tags session
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{sid}/next [post]
func (h *SessionHandler) Next(c *fiber.Ctx) error {
	resp, err := h.sessions.Next(c.UserContext(), c.Params("sid"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Prev godoc
// @Summary Go back one question
// @Tags session
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{sid}/prev [post]
func (h *SessionHandler) Prev(c *fiber.Ctx) error {
	resp, err := h.sessions.Prev(c.UserContext(), c.Params("sid"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// JumpTo godoc
// @Summary Jump to a question
// @Tags session
// @Accept json
// @Produce json
// @Param sid path string true "Session ID"
// @Param request body dto.JumpRequest true "Target index"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /sessions/{sid}/jump [post]
func (h *SessionHandler) JumpTo(c *fiber.Ctx) error {
	var req dto.JumpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	resp, err := h.sessions.JumpTo(c.UserContext(), c.Params("sid"), req.Index)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ToggleFlag godoc
// @Summary Flag or unflag the current question
// @Tags session
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {object} dto.FlagResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{sid}/flag [post]
func (h *SessionHandler) ToggleFlag(c *fiber.Ctx) error {
	resp, err := h.sessions.ToggleFlag(c.UserContext(), c.Params("sid"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Submit godoc
// @Summary Finish the session
// @Description Scores the session and stores the result. Unanswered questions count as skipped.
// @Tags session
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{sid}/submit [post]
func (h *SessionHandler) Submit(c *fiber.Ctx) error {
	resp, err := h.sessions.Submit(c.UserContext(), c.Params("sid"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Analysis godoc
// @Summary Analyze a finished session
// @Description Returns the score, feedback and proposed flashcards of a finished session.
// @Tags results
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {object} dto.AnalysisResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{sid}/analysis [get]
func (h *SessionHandler) Analysis(c *fiber.Ctx) error {
	resp, err := h.analysis.AnalyzeSession(c.UserContext(), c.Params("sid"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// LastResult godoc
// @Summary Last analyzed result
// @Tags results
// @Produce json
// @Success 200 {object} dto.AnalysisResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /results/last [get]
func (h *SessionHandler) LastResult(c *fiber.Ctx) error {
	resp, err := h.analysis.LastResult(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
