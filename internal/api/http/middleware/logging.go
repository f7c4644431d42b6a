package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/flower-server/internal/logger"
)

// Logging logs HTTP requests and results.
type Logging struct {
	logger *logger.Logger
}

func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// HandleHTTP logs method, path, duration and status for each request.
func (l *Logging) HandleHTTP(c *fiber.Ctx) error {
	start := time.Now()

	l.logger.Debug("HTTP request started",
		"method", c.Method(),
		"path", c.Path())

	err := c.Next()
	if err != nil {
		l.logger.Debug("HTTP request returned error",
			"method", c.Method(),
			"path", c.Path(),
			"error", err.Error())
	}
	handleChainError(c, err)

	status := c.Response().StatusCode()
	l.logger.Info("HTTP request completed",
		"method", c.Method(),
		"path", c.Path(),
		"duration_ms", time.Since(start).Milliseconds(),
		"status", status,
		"ip", c.IP())

	if status >= fiber.StatusInternalServerError {
		l.logger.Error("HTTP request failed",
			"method", c.Method(),
			"path", c.Path(),
			"status", status)
	}

	return nil
}

// handleChainError renders err with the application error handler so that
// outer middlewares observe the final status code.
func handleChainError(c *fiber.Ctx, err error) {
	if err == nil {
		return
	}
	if herr := c.App().ErrorHandler(c, err); herr != nil {
		_ = c.SendStatus(fiber.StatusInternalServerError)
	}
}
