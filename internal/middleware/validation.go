package middleware

import (
	"strconv"

	"quizforge/internal/domain"
	"quizforge/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by the validation middleware.
const (
	LocalQuizID = "validated_quiz_id"
	LocalCount  = "validated_count"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware(v *validation.Validator) *ValidationMiddleware {
	return &ValidationMiddleware{validator: v}
}

// ValidateQuizID validates the :id path parameter; "custom" is allowed.
func (vm *ValidationMiddleware) ValidateQuizID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if errs := vm.validator.ValidateQuizID(id); len(errs) > 0 {
			return errs // This will be handled by ErrorHandler middleware
		}
		c.Locals(LocalQuizID, id)
		return c.Next()
	}
}

// ValidateStoredQuizID validates an :id that must refer to a stored quiz.
func (vm *ValidationMiddleware) ValidateStoredQuizID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if errs := vm.validator.ValidateStoredQuizID(id); len(errs) > 0 {
			return errs
		}
		c.Locals(LocalQuizID, id)
		return c.Next()
	}
}

// ParseIndexParam reads a non-negative integer path parameter.
func ParseIndexParam(c *fiber.Ctx, name string) (int, error) {
	raw := c.Params(name)
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.ValidationErrors{domain.NewInvalidFormatError(name, raw)}
	}
	return n, nil
}
