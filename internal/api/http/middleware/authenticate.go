package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/flower-server/internal/logger"
	"github.com/dtroode/flower-server/internal/model"
)

const bearerScheme = "Bearer"

// AuthService resolves bearer tokens to identities.
type AuthService interface {
	AuthenticateAny(ctx context.Context, token string) (string, error)
	AuthenticateRole(ctx context.Context, token string, role model.Role) (model.User, error)
}

// AuthObserver records authentication outcomes.
type AuthObserver interface {
	ObserveAuth(action string, err error)
}

// Authenticate guards routes with bearer token authentication.
type Authenticate struct {
	authService    AuthService
	contextManager model.ContextManager
	observer       AuthObserver
	logger         *logger.Logger
}

func NewAuthenticate(
	authService AuthService,
	contextManager model.ContextManager,
	observer AuthObserver,
	logger *logger.Logger,
) *Authenticate {
	return &Authenticate{
		authService:    authService,
		contextManager: contextManager,
		observer:       observer,
		logger:         logger,
	}
}

// Any admits any existing user and stores the email on the request.
func (m *Authenticate) Any() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := BearerToken(c)
		if err != nil {
			return m.reject(c, err)
		}

		email, err := m.authService.AuthenticateAny(c.UserContext(), token)
		if err != nil {
			return m.reject(c, err)
		}

		m.observer.ObserveAuth("authenticate", nil)
		m.contextManager.SetEmail(c, email)
		return c.Next()
	}
}

// Role admits only users holding role and stores the user on the request.
func (m *Authenticate) Role(role model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := BearerToken(c)
		if err != nil {
			return m.reject(c, err)
		}

		user, err := m.authService.AuthenticateRole(c.UserContext(), token, role)
		if err != nil {
			return m.reject(c, err)
		}

		m.observer.ObserveAuth("authenticate", nil)
		m.contextManager.SetUser(c, user)
		return c.Next()
	}
}

func (m *Authenticate) reject(c *fiber.Ctx, err error) error {
	m.observer.ObserveAuth("authenticate", err)
	m.logger.Info("Authenticate middleware: request rejected",
		"method", c.Method(),
		"path", c.Path(),
		"error", err.Error())
	return err
}

// BearerToken extracts the token from the Authorization header, falling back
// to the token query parameter.
func BearerToken(c *fiber.Ctx) (string, error) {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, bearerScheme) || token == "" {
			return "", model.ErrMissingToken
		}
		return token, nil
	}

	if token := c.Query("token"); token != "" {
		return token, nil
	}

	return "", model.ErrMissingToken
}
