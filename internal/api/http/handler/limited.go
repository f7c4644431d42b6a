package handler

import "github.com/gofiber/fiber/v2"

// Limited answers requests that passed the rate limiter.
func Limited(c *fiber.Ctx) error {
	return c.JSON(messageResponse{Message: "You are within the rate limit."})
}
