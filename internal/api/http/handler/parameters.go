package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/flower-server/internal/logger"
	"github.com/dtroode/flower-server/internal/model"
)

// ParametersService manages the training parameters document.
type ParametersService interface {
	CreateDefaults(ctx context.Context) (model.Document, error)
	Get(ctx context.Context) (model.Document, error)
	Update(ctx context.Context, patch model.Document) (model.Document, error)
}

// Parameters handles the parameters endpoints.
type Parameters struct {
	parametersService ParametersService
	logger            *logger.Logger
}

func NewParameters(parametersService ParametersService, logger *logger.Logger) *Parameters {
	return &Parameters{parametersService: parametersService, logger: logger}
}

type parametersResponse struct {
	Message    string         `json:"message"`
	Parameters model.Document `json:"parameters"`
}

func (h *Parameters) Create(c *fiber.Ctx) error {
	params, err := h.parametersService.CreateDefaults(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(parametersResponse{
		Message:    "Parameters document created successfully.",
		Parameters: params,
	})
}

func (h *Parameters) Get(c *fiber.Ctx) error {
	params, err := h.parametersService.Get(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(params)
}

// Update merges a JSON object into the parameters document.
func (h *Parameters) Update(c *fiber.Ctx) error {
	var patch model.Document
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Invalid request body.")
	}

	params, err := h.parametersService.Update(c.UserContext(), patch)
	if err != nil {
		return err
	}

	return c.JSON(parametersResponse{
		Message:    "Parameters updated successfully.",
		Parameters: params,
	})
}
