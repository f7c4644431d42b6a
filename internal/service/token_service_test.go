package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	servermocks "github.com/dtroode/flower-server/internal/mocks"
	"github.com/dtroode/flower-server/internal/model"
	"github.com/dtroode/flower-server/internal/testutil"
)

func TestTokenService_Issue(t *testing.T) {
	ctx := context.Background()

	codec := servermocks.NewTokenCodec(t)
	registry := servermocks.NewRevocationRegistry(t)
	codec.On("Issue", "a@b.c").Return("tok", nil).Once()

	svc := NewTokenService(codec, registry, testutil.MakeNoopLogger())

	tok, err := svc.Issue(ctx, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)
}

func TestTokenService_Issue_CodecError(t *testing.T) {
	codec := servermocks.NewTokenCodec(t)
	registry := servermocks.NewRevocationRegistry(t)
	codec.On("Issue", "a@b.c").Return("", assert.AnError).Once()

	svc := NewTokenService(codec, registry, testutil.MakeNoopLogger())

	_, err := svc.Issue(context.Background(), "a@b.c")
	require.ErrorIs(t, err, assert.AnError)
}

func TestTokenService_GetEmail(t *testing.T) {
	tests := []struct {
		name      string
		parseErr  error
		revoked   bool
		revokeErr error
		wantErr   error
	}{
		{name: "valid"},
		{name: "invalid format", parseErr: model.ErrInvalidFormat, wantErr: model.ErrInvalidFormat},
		{name: "revoked", revoked: true, wantErr: model.ErrRevoked},
		{name: "registry failure", revokeErr: assert.AnError, wantErr: assert.AnError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			codec := servermocks.NewTokenCodec(t)
			registry := servermocks.NewRevocationRegistry(t)

			if tt.parseErr != nil {
				codec.On("Parse", "tok").Return("", tt.parseErr).Once()
			} else {
				codec.On("Parse", "tok").Return("a@b.c", nil).Once()
				registry.On("IsInvalidated", ctx, "tok").Return(tt.revoked, tt.revokeErr).Once()
			}

			svc := NewTokenService(codec, registry, testutil.MakeNoopLogger())
			email, err := svc.GetEmail(ctx, "tok")

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, email)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "a@b.c", email)
		})
	}
}

func TestTokenService_RevokeByToken(t *testing.T) {
	tests := []struct {
		name       string
		parseErr   error
		invalidErr error
		wantErr    error
	}{
		{name: "first revoke"},
		{name: "invalid format", parseErr: model.ErrInvalidFormat, wantErr: model.ErrInvalidFormat},
		{name: "already revoked", invalidErr: model.ErrAlreadyInvalidated, wantErr: model.ErrAlreadyLoggedOut},
		{name: "registry failure", invalidErr: assert.AnError, wantErr: assert.AnError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			codec := servermocks.NewTokenCodec(t)
			registry := servermocks.NewRevocationRegistry(t)

			if tt.parseErr != nil {
				codec.On("Parse", "tok").Return("", tt.parseErr).Once()
			} else {
				codec.On("Parse", "tok").Return("a@b.c", nil).Once()
				registry.On("Invalidate", ctx, "tok").Return(tt.invalidErr).Once()
			}

			svc := NewTokenService(codec, registry, testutil.MakeNoopLogger())
			email, err := svc.RevokeByToken(ctx, "tok")

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "a@b.c", email)
		})
	}
}

func TestTokenService_AlreadyLoggedOutKeepsCause(t *testing.T) {
	ctx := context.Background()
	codec := servermocks.NewTokenCodec(t)
	registry := servermocks.NewRevocationRegistry(t)
	codec.On("Parse", "tok").Return("a@b.c", nil).Once()
	registry.On("Invalidate", ctx, "tok").Return(model.ErrAlreadyInvalidated).Once()

	_, err := NewTokenService(codec, registry, testutil.MakeNoopLogger()).RevokeByToken(ctx, "tok")
	assert.ErrorIs(t, err, model.ErrAlreadyLoggedOut)
	assert.ErrorIs(t, err, model.ErrAlreadyInvalidated)
}
