package token

import (
	"strings"

	"github.com/dtroode/flower-server/internal/model"
)

// LegacyPrefix is prepended to the email by the Prefix codec.
const LegacyPrefix = "token-for-"

var _ model.TokenCodec = (*Prefix)(nil)

// Prefix is the unsigned, deterministic codec: the token is the email with a
// fixed prefix. Logging out with it revokes every future login of that email.
type Prefix struct{}

// NewPrefix creates a Prefix codec.
func NewPrefix() *Prefix {
	return &Prefix{}
}

// Issue returns LegacyPrefix + email.
func (p *Prefix) Issue(email string) (string, error) {
	return LegacyPrefix + email, nil
}

// Parse strips LegacyPrefix and returns the remainder verbatim.
func (p *Prefix) Parse(token string) (string, error) {
	email, ok := strings.CutPrefix(token, LegacyPrefix)
	if !ok {
		return "", model.ErrInvalidFormat
	}
	return email, nil
}
