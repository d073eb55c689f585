package middleware

import (
	"strings"

	"wikiquiz/internal/domain"
	"wikiquiz/internal/dto"
	"wikiquiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	LocalValidatedURL    = "validated_url"
	LocalValidatedQuizID = "validated_quiz_id"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateGenerateQuizRequest parses the JSON body and checks its url.
func (vm *ValidationMiddleware) ValidateGenerateQuizRequest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.GenerateQuizRequest
		if err := c.BodyParser(&req); err != nil {
			return domain.NewInvalidInputError("Request body must be a JSON object with a url field")
		}

		if errors := vm.validator.ValidateArticleURL(req.URL); len(errors) > 0 {
			return errors // This will be handled by ErrorHandler middleware
		}

		c.Locals(LocalValidatedURL, strings.TrimSpace(req.URL))
		return c.Next()
	}
}

// ValidateQuizID checks that the :id path parameter is an integer.
func (vm *ValidationMiddleware) ValidateQuizID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, errors := vm.validator.ValidateQuizID(c.Params("id"))
		if len(errors) > 0 {
			return errors
		}

		c.Locals(LocalValidatedQuizID, id)
		return c.Next()
	}
}
