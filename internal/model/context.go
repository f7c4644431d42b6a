package model

import "github.com/gofiber/fiber/v2"

// ContextManager stores the authenticated identity on a request context.
type ContextManager interface {
	SetEmail(c *fiber.Ctx, email string)
	GetEmail(c *fiber.Ctx) (string, bool)
	SetUser(c *fiber.Ctx, user User)
	GetUser(c *fiber.Ctx) (User, bool)
}
