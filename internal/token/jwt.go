package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/flower-server/internal/model"
)

// Claims are the JWT claims of an access token. Subject holds the email.
type Claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"typ"`
}

const typeAccess = "access"

var _ model.TokenCodec = (*JWT)(nil)

// JWT implements TokenCodec with HMAC-signed tokens. Every issued token
// carries a fresh JTI, so two logins of one user never share a token.
type JWT struct {
	secretKey []byte
	now       func() time.Time
}

// NewJWT creates a new JWT codec with the provided secret key.
func NewJWT(secretKey string) *JWT {
	return &JWT{secretKey: []byte(secretKey), now: time.Now}
}

// Issue signs a token for email.
func (j *JWT) Issue(email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			Subject:  email,
			IssuedAt: jwt.NewNumericDate(j.now()),
		},
		TokenType: typeAccess,
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// Parse validates the signature and returns the email from the subject claim.
// Any failure is reported as model.ErrInvalidFormat.
func (j *JWT) Parse(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return j.secretKey, nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil {
		return "", errors.Join(model.ErrInvalidFormat, err)
	}
	if !token.Valid {
		return "", model.ErrInvalidFormat
	}
	if claims.TokenType != typeAccess {
		return "", fmt.Errorf("%w: token type mismatch: %s", model.ErrInvalidFormat, claims.TokenType)
	}
	if claims.Subject == "" || claims.ID == "" {
		return "", fmt.Errorf("%w: missing subject or id", model.ErrInvalidFormat)
	}
	return claims.Subject, nil
}
