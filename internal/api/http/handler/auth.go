package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/flower-server/internal/api/http/middleware"
	"github.com/dtroode/flower-server/internal/logger"
	"github.com/dtroode/flower-server/internal/model"
	"github.com/dtroode/flower-server/internal/service"
)

// AuthService defines account operations used by the HTTP layer.
type AuthService interface {
	Register(ctx context.Context, params service.RegisterParams) error
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, token string) error
	ListUsers(ctx context.Context) ([]model.User, error)
}

// Auth handles account endpoints.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	observer       middleware.AuthObserver
	logger         *logger.Logger
}

func NewAuth(
	authService AuthService,
	contextManager model.ContextManager,
	observer middleware.AuthObserver,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		observer:       observer,
		logger:         logger,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type credentials struct {
	Email    string `json:"email" query:"email"`
	Password string `json:"password" query:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userData struct {
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      model.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at,omitempty"`
}

type userEntry struct {
	ID   string   `json:"id"`
	Data userData `json:"data"`
}

type usersResponse struct {
	Users []userEntry `json:"users"`
}

type meResponse struct {
	Email string `json:"email"`
}

// Register creates an account from a JSON body.
func (h *Auth) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Invalid request body.")
	}

	err := h.authService.Register(c.UserContext(), service.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     model.Role(req.Role),
	})
	h.observer.ObserveAuth("register", err)
	if err != nil {
		return err
	}

	return c.JSON(messageResponse{Message: "User registered successfully."})
}

// Login accepts credentials as query parameters or as a JSON body.
func (h *Auth) Login(c *fiber.Ctx) error {
	var creds credentials
	if err := c.QueryParser(&creds); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Invalid query parameters.")
	}
	if creds.Email == "" && len(c.Body()) > 0 {
		if err := c.BodyParser(&creds); err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Invalid request body.")
		}
	}
	if creds.Email == "" || creds.Password == "" {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Email and password are required.")
	}

	token, err := h.authService.Login(c.UserContext(), creds.Email, creds.Password)
	h.observer.ObserveAuth("login", err)
	if err != nil {
		return err
	}

	return c.JSON(tokenResponse{AccessToken: token, TokenType: model.BearerTokenType})
}

// Logout invalidates the presented bearer token.
func (h *Auth) Logout(c *fiber.Ctx) error {
	token, err := middleware.BearerToken(c)
	if err != nil {
		return err
	}

	err = h.authService.Logout(c.UserContext(), token)
	h.observer.ObserveAuth("logout", err)
	if err != nil {
		return err
	}

	return c.JSON(messageResponse{Message: "User logged out successfully."})
}

// Users lists accounts without password hashes.
func (h *Auth) Users(c *fiber.Ctx) error {
	users, err := h.authService.ListUsers(c.UserContext())
	if err != nil {
		return err
	}

	resp := usersResponse{Users: make([]userEntry, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, userEntry{
			ID: u.Email,
			Data: userData{
				Email:     u.Email,
				Name:      u.Name,
				Role:      u.Role,
				CreatedAt: u.CreatedAt,
			},
		})
	}

	return c.JSON(resp)
}

// Me returns the authenticated email.
func (h *Auth) Me(c *fiber.Ctx) error {
	email, ok := h.contextManager.GetEmail(c)
	if !ok {
		return model.ErrMissingToken
	}
	return c.JSON(meResponse{Email: email})
}
