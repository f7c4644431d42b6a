package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/dtroode/flower-server/internal/logger"
	"github.com/dtroode/flower-server/internal/model"
)

// bcrypt ignores input past this length.
const maxPasswordBytes = 72

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// RegisterParams is the input of Register.
type RegisterParams struct {
	Email    string
	Password string
	Name     string
	Role     model.Role
}

// Validate checks the registration payload.
func (p RegisterParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&p.Password, validation.Required, validation.Length(1, maxPasswordBytes)),
		validation.Field(&p.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Role, validation.In(model.RoleUser, model.RoleAdmin)),
	)
}

// Auth implements registration, login, logout and request authentication.
type Auth struct {
	userStore    model.UserStore
	tokenService *TokenService
	hasher       PasswordHasher
	logger       *logger.Logger
	now          func() time.Time
}

func NewAuth(
	userStore model.UserStore,
	codec model.TokenCodec,
	registry model.RevocationRegistry,
	hasher PasswordHasher,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		tokenService: NewTokenService(codec, registry, logger),
		hasher:       hasher,
		logger:       logger,
		now:          time.Now,
	}
}

// Register creates a new user. An empty role defaults to model.RoleUser.
func (a *Auth) Register(ctx context.Context, params RegisterParams) error {
	params.Email = strings.TrimSpace(params.Email)
	if params.Role == "" {
		params.Role = model.RoleUser
	}

	a.logger.Debug("Auth service: starting user registration",
		"email", params.Email)

	if err := params.Validate(); err != nil {
		return fmt.Errorf("%w: %w", model.ErrValidation, err)
	}

	_, err := a.userStore.GetByEmail(ctx, params.Email)
	if err == nil {
		a.logger.Info("Auth service: user already exists",
			"email", params.Email)
		return model.ErrUserAlreadyExists
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", params.Email,
			"error", err.Error())
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := a.hasher.Hash(params.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = a.userStore.Create(ctx, model.User{
		Email:        params.Email,
		Name:         params.Name,
		PasswordHash: hash,
		Role:         params.Role,
		CreatedAt:    a.now().UTC(),
	})
	if errors.Is(err, model.ErrAlreadyExists) {
		return model.ErrUserAlreadyExists
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", params.Email,
			"error", err.Error())
		return fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registered",
		"email", params.Email,
		"role", params.Role)

	return nil
}

// Login verifies the credentials and issues a bearer token.
func (a *Auth) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	a.logger.Debug("Auth service: starting user login",
		"email", email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return "", model.ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := a.hasher.Compare(user.PasswordHash, password); err != nil {
		a.logger.Info("Auth service: invalid credentials",
			"email", email)
		return "", err
	}

	token, err := a.tokenService.Issue(ctx, user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: login completed",
		"email", email)

	return token, nil
}

// AuthenticateAny resolves token to the email of an existing user.
func (a *Auth) AuthenticateAny(ctx context.Context, token string) (string, error) {
	user, err := a.resolve(ctx, token)
	if err != nil {
		return "", err
	}
	return user.Email, nil
}

// AuthenticateRole resolves token to a user and requires the given role.
func (a *Auth) AuthenticateRole(ctx context.Context, token string, role model.Role) (model.User, error) {
	user, err := a.resolve(ctx, token)
	if err != nil {
		return model.User{}, err
	}

	if user.Role != role {
		a.logger.Info("Auth service: role check failed",
			"email", user.Email,
			"role", user.Role,
			"required_role", role)
		return model.User{}, model.ErrForbidden
	}

	return user, nil
}

// resolve runs decode, invalidation check and identity lookup, in that order.
func (a *Auth) resolve(ctx context.Context, token string) (model.User, error) {
	email, err := a.tokenService.GetEmail(ctx, token)
	if err != nil {
		return model.User{}, err
	}

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.ErrUnknownUser
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// Logout invalidates token. The token must decode but its user need not exist.
func (a *Auth) Logout(ctx context.Context, token string) error {
	email, err := a.tokenService.RevokeByToken(ctx, token)
	if err != nil {
		return err
	}

	a.logger.Info("Auth service: user logged out",
		"email", email)

	return nil
}

// ListUsers returns every registered user.
func (a *Auth) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := a.userStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
