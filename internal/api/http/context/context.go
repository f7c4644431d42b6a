package context

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/flower-server/internal/model"
)

const (
	emailKey = "auth_email"
	userKey  = "auth_user"
)

// Manager keeps the authenticated identity in fiber request locals.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) SetEmail(c *fiber.Ctx, email string) {
	c.Locals(emailKey, email)
}

// GetEmail returns the email stored by SetEmail or SetUser.
func (m *Manager) GetEmail(c *fiber.Ctx) (string, bool) {
	email, ok := c.Locals(emailKey).(string)
	if !ok || email == "" {
		return "", false
	}
	return email, true
}

// SetUser stores user and its email.
func (m *Manager) SetUser(c *fiber.Ctx, user model.User) {
	c.Locals(userKey, user)
	m.SetEmail(c, user.Email)
}

func (m *Manager) GetUser(c *fiber.Ctx) (model.User, bool) {
	user, ok := c.Locals(userKey).(model.User)
	return user, ok
}
