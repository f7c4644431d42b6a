package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/flower-server/internal/logger"
	"github.com/dtroode/flower-server/internal/model"
)

// TokenService issues, resolves and revokes bearer tokens. It composes the
// TokenCodec and the RevocationRegistry.
type TokenService struct {
	codec    model.TokenCodec
	registry model.RevocationRegistry
	logger   *logger.Logger
}

func NewTokenService(codec model.TokenCodec, registry model.RevocationRegistry, logger *logger.Logger) *TokenService {
	return &TokenService{codec: codec, registry: registry, logger: logger}
}

func (s *TokenService) Issue(_ context.Context, email string) (string, error) {
	token, err := s.codec.Issue(email)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// GetEmail decodes token and rejects it when it has been revoked.
func (s *TokenService) GetEmail(ctx context.Context, token string) (string, error) {
	email, err := s.codec.Parse(token)
	if err != nil {
		return "", err
	}

	revoked, err := s.registry.IsInvalidated(ctx, token)
	if err != nil {
		return "", fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return "", model.ErrRevoked
	}

	return email, nil
}

// RevokeByToken decodes token and adds it to the registry. Revoking twice
// fails with model.ErrAlreadyLoggedOut.
func (s *TokenService) RevokeByToken(ctx context.Context, token string) (string, error) {
	email, err := s.codec.Parse(token)
	if err != nil {
		return "", err
	}

	err = s.registry.Invalidate(ctx, token)
	if errors.Is(err, model.ErrAlreadyInvalidated) {
		return "", fmt.Errorf("%w: %w", model.ErrAlreadyLoggedOut, err)
	}
	if err != nil {
		return "", fmt.Errorf("revoke token: %w", err)
	}

	return email, nil
}
