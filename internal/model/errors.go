package model

import "errors"

// Store errors.
var (
	ErrNotFound      = errors.New("document not found")
	ErrAlreadyExists = errors.New("document already exists")
)

// Access control errors.
var (
	ErrMissingToken       = errors.New("missing authorization token")
	ErrInvalidFormat      = errors.New("invalid token format")
	ErrRevoked            = errors.New("token has been invalidated")
	ErrUnknownUser        = errors.New("token user does not exist")
	ErrForbidden          = errors.New("not enough permissions")
	ErrAlreadyInvalidated = errors.New("token already invalidated")
	ErrAlreadyLoggedOut   = errors.New("user already logged out")
	ErrRateLimitExceeded  = errors.New("rate limit exceeded")
)

// Account errors.
var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation failed")
)
