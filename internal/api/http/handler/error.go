package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/flower-server/internal/logger"
	"github.com/dtroode/flower-server/internal/model"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

// ErrorHandler renders handler errors as {"detail": ...} with a status code
// derived from the error.
func ErrorHandler(logger *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, detail := handleError(err)

		if status >= fiber.StatusInternalServerError {
			logger.Error("HTTP handler: request failed",
				"method", c.Method(),
				"path", c.Path(),
				"error", err.Error())
		}
		if status == fiber.StatusUnauthorized {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		}

		return c.Status(status).JSON(errorResponse{Detail: detail})
	}
}

func handleError(err error) (int, string) {
	var fiberErr *fiber.Error

	// AlreadyLoggedOut wraps AlreadyInvalidated and must win over it.
	switch {
	case errors.Is(err, model.ErrAlreadyLoggedOut):
		return fiber.StatusBadRequest, "User already logged out."
	case errors.Is(err, model.ErrUserAlreadyExists):
		return fiber.StatusBadRequest, "User already exists."
	case errors.Is(err, model.ErrValidation):
		return fiber.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, model.ErrMissingToken):
		return fiber.StatusUnauthorized, "Not authenticated."
	case errors.Is(err, model.ErrInvalidFormat):
		return fiber.StatusUnauthorized, "Invalid token format."
	case errors.Is(err, model.ErrRevoked):
		return fiber.StatusUnauthorized, "Token has been invalidated."
	case errors.Is(err, model.ErrUnknownUser):
		return fiber.StatusUnauthorized, "Unknown user."
	case errors.Is(err, model.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "Invalid credentials."
	case errors.Is(err, model.ErrForbidden):
		return fiber.StatusForbidden, "Not enough permissions."
	case errors.Is(err, model.ErrUserNotFound):
		return fiber.StatusNotFound, "User not found."
	case errors.Is(err, model.ErrRateLimitExceeded):
		return fiber.StatusTooManyRequests, "Rate limit exceeded"
	case errors.Is(err, model.ErrNotFound):
		return fiber.StatusNotFound, "Resource not found."
	case errors.Is(err, model.ErrAlreadyExists):
		return fiber.StatusConflict, "Resource already exists."
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	default:
		return fiber.StatusInternalServerError, "Internal server error."
	}
}
