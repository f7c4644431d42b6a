package model

import "context"

// BearerTokenType is returned to clients alongside the access token.
const BearerTokenType = "bearer"

// TokenCodec issues bearer tokens for an email and parses them back.
// Parse fails with ErrInvalidFormat for tokens the codec did not produce.
type TokenCodec interface {
	Issue(email string) (string, error)
	Parse(token string) (string, error)
}

// RevocationRegistry tracks tokens that have been logged out.
// Invalidate fails with ErrAlreadyInvalidated when the token is already present.
type RevocationRegistry interface {
	Invalidate(ctx context.Context, token string) error
	IsInvalidated(ctx context.Context, token string) (bool, error)
}
