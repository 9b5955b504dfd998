package serverutils

import (
	"errors"

	"ai-agent-platform/pkg/profile"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps domain errors onto HTTP status codes.
func StatusFor(err error) int {
	var fiberErr *fiber.Error
	var reqErr *ValidationErrors

	switch {
	case errors.Is(err, profile.ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, profile.ErrValidation):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, profile.ErrSessionComplete):
		return fiber.StatusConflict
	case errors.As(err, &reqErr):
		return fiber.StatusBadRequest
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	default:
		return fiber.StatusInternalServerError
	}
}

// MessageFor is the client-facing message: the bare reason for validation
// errors, the error text otherwise.
func MessageFor(err error) string {
	var verr *profile.ValidationError
	if errors.As(err, &verr) {
		return verr.Reason
	}
	if StatusFor(err) == fiber.StatusInternalServerError {
		return "Internal server error"
	}
	return err.Error()
}

// ErrorHandlerMiddleware turns errors returned by downstream handlers into the
// standard error envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := StatusFor(err)
		return ctx.Status(code).JSON(ErrorResponse(code, MessageFor(err)))
	}
}
