package middleware

import (
	"errors"
	"net/http"

	"quizforge/internal/domain"
	"quizforge/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// ValidationErrorResponse represents validation error response
type ValidationErrorResponse struct {
	Code    string                    `json:"code"`
	Message string                    `json:"message"`
	Status  int                       `json:"status"`
	Errors  []*domain.ValidationError `json:"errors"`
}

// ErrorHandler is a centralized error handling middleware
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		log := logger.Get()

		var validationErrs domain.ValidationErrors
		if errors.As(err, &validationErrs) {
			log.Warn("Validation errors occurred",
				zap.String("path", c.Path()),
				zap.Int("error_count", len(validationErrs)),
			)
			return c.Status(http.StatusBadRequest).JSON(ValidationErrorResponse{
				Code:    string(domain.CodeValidation),
				Message: "Request validation failed",
				Status:  http.StatusBadRequest,
				Errors:  validationErrs,
			})
		}

		// Generation wraps question validation failures, so it is matched first.
		var genErr *domain.GenerationError
		if errors.As(err, &genErr) {
			log.Error("Quiz generation failed", zap.String("path", c.Path()), zap.Error(err))
			return respond(c, http.StatusBadGateway, domain.CodeGeneration, genErr.Error())
		}

		var fieldErr *domain.ValidationError
		if errors.As(err, &fieldErr) {
			log.Warn("Validation error occurred", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(http.StatusBadRequest).JSON(ValidationErrorResponse{
				Code:    string(domain.CodeValidation),
				Message: fieldErr.Error(),
				Status:  http.StatusBadRequest,
				Errors:  []*domain.ValidationError{fieldErr},
			})
		}

		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			log.Info("Resource not found", zap.String("path", c.Path()), zap.Error(err))
			return respond(c, http.StatusNotFound, domain.CodeNotFound, notFound.Error())
		}

		var persistErr *domain.PersistenceError
		if errors.As(err, &persistErr) {
			log.Error("Persistence error occurred", zap.String("op", persistErr.Op), zap.Error(persistErr.Err))
			return respond(c, http.StatusServiceUnavailable, domain.CodePersistence, "storage is unavailable")
		}

		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			statusCode := mapDomainErrorToHTTPStatus(domainErr)
			log.Warn("Domain error occurred",
				zap.String("code", string(domainErr.Code)),
				zap.String("message", domainErr.Message),
				zap.Int("status", statusCode),
				zap.Error(domainErr.Err),
			)
			return respond(c, statusCode, domainErr.Code, domainErr.Message)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			log.Warn("Fiber error occurred",
				zap.Int("code", fiberErr.Code),
				zap.String("message", fiberErr.Message),
			)
			return c.Status(fiberErr.Code).JSON(ErrorResponse{
				Code:    "HTTP_ERROR",
				Message: fiberErr.Message,
				Status:  fiberErr.Code,
			})
		}

		log.Error("Unknown error occurred",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return respond(c, http.StatusInternalServerError, domain.CodeInternal, "Internal server error")
	}
}

func respond(c *fiber.Ctx, status int, code domain.ErrorCode, message string) error {
	return c.Status(status).JSON(ErrorResponse{Code: string(code), Message: message, Status: status})
}

// mapDomainErrorToHTTPStatus maps domain errors to HTTP status codes
func mapDomainErrorToHTTPStatus(err *domain.DomainError) int {
	switch err.Code {
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeInvalidInput, domain.CodeValidation:
		return http.StatusBadRequest
	case domain.CodeSessionState:
		return http.StatusConflict
	case domain.CodeGeneration:
		return http.StatusBadGateway
	case domain.CodePersistence:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
