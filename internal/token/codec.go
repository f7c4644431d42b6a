package token

import (
	"fmt"

	"github.com/dtroode/flower-server/internal/model"
)

// Codec names accepted by New.
const (
	CodecJWT    = "jwt"
	CodecPrefix = "prefix"
)

// New builds the codec selected by name.
func New(name, secret string) (model.TokenCodec, error) {
	switch name {
	case CodecJWT:
		if secret == "" {
			return nil, fmt.Errorf("jwt codec requires a secret")
		}
		return NewJWT(secret), nil
	case CodecPrefix:
		return NewPrefix(), nil
	default:
		return nil, fmt.Errorf("unknown token codec %q", name)
	}
}
