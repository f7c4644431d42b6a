package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	servermocks "github.com/dtroode/flower-server/internal/mocks"
	"github.com/dtroode/flower-server/internal/model"
	"github.com/dtroode/flower-server/internal/password"
	"github.com/dtroode/flower-server/internal/repository/document"
	"github.com/dtroode/flower-server/internal/repository/memory"
	"github.com/dtroode/flower-server/internal/revocation"
	"github.com/dtroode/flower-server/internal/testutil"
	"github.com/dtroode/flower-server/internal/token"
)

func newAuth(t *testing.T, codec model.TokenCodec) *Auth {
	t.Helper()
	return NewAuth(
		document.NewUserRepository(memory.NewDocumentStore()),
		codec,
		revocation.NewMemory(),
		password.NewBcrypt(bcrypt.MinCost),
		testutil.MakeNoopLogger(),
	)
}

func register(t *testing.T, a *Auth, email string, role model.Role) {
	t.Helper()
	require.NoError(t, a.Register(context.Background(), RegisterParams{
		Email: email, Password: "testpass", Name: "Test", Role: role,
	}))
}

func TestAuth_LoginLogoutScenario_PrefixCodec(t *testing.T) {
	ctx := context.Background()
	a := newAuth(t, token.NewPrefix())
	register(t, a, "alice@test.com", model.RoleUser)

	tok, err := a.Login(ctx, "alice@test.com", "testpass")
	require.NoError(t, err)
	assert.Equal(t, "token-for-alice@test.com", tok)

	email, err := a.AuthenticateAny(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, "alice@test.com", email)

	require.NoError(t, a.Logout(ctx, tok))

	_, err = a.AuthenticateAny(ctx, tok)
	assert.ErrorIs(t, err, model.ErrRevoked)

	assert.ErrorIs(t, a.Logout(ctx, tok), model.ErrAlreadyLoggedOut)

	// the prefix codec reissues the revoked token
	again, err := a.Login(ctx, "alice@test.com", "testpass")
	require.NoError(t, err)
	_, err = a.AuthenticateAny(ctx, again)
	assert.ErrorIs(t, err, model.ErrRevoked)
}

func TestAuth_LogoutRevokesOneSession_JWTCodec(t *testing.T) {
	ctx := context.Background()
	a := newAuth(t, token.NewJWT("secret"))
	register(t, a, "alice@test.com", model.RoleUser)

	first, err := a.Login(ctx, "alice@test.com", "testpass")
	require.NoError(t, err)
	second, err := a.Login(ctx, "alice@test.com", "testpass")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	require.NoError(t, a.Logout(ctx, first))

	_, err = a.AuthenticateAny(ctx, first)
	assert.ErrorIs(t, err, model.ErrRevoked)

	email, err := a.AuthenticateAny(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "alice@test.com", email)

	third, err := a.Login(ctx, "alice@test.com", "testpass")
	require.NoError(t, err)
	_, err = a.AuthenticateAny(ctx, third)
	assert.NoError(t, err)
}

func TestAuth_AuthenticateRole(t *testing.T) {
	ctx := context.Background()
	a := newAuth(t, token.NewPrefix())
	register(t, a, "user@test.com", model.RoleUser)
	register(t, a, "admin@test.com", model.RoleAdmin)

	_, err := a.AuthenticateRole(ctx, "token-for-user@test.com", model.RoleAdmin)
	assert.ErrorIs(t, err, model.ErrForbidden)

	u, err := a.AuthenticateRole(ctx, "token-for-admin@test.com", model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "admin@test.com", u.Email)
	assert.Equal(t, "Test", u.Name)
	assert.Equal(t, model.RoleAdmin, u.Role)
	assert.NotEmpty(t, u.PasswordHash)

	// role match is exact: an admin is not a "user"
	_, err = a.AuthenticateRole(ctx, "token-for-admin@test.com", model.RoleUser)
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestAuth_AuthenticateErrors(t *testing.T) {
	ctx := context.Background()
	a := newAuth(t, token.NewPrefix())
	register(t, a, "alice@test.com", model.RoleAdmin)

	_, err := a.AuthenticateAny(ctx, "bearer-alice@test.com")
	assert.ErrorIs(t, err, model.ErrInvalidFormat)

	_, err = a.AuthenticateAny(ctx, "token-for-ghost@test.com")
	assert.ErrorIs(t, err, model.ErrUnknownUser)

	_, err = a.AuthenticateRole(ctx, "token-for-ghost@test.com", model.RoleAdmin)
	assert.ErrorIs(t, err, model.ErrUnknownUser)

	_, err = a.AuthenticateRole(ctx, "garbage", model.RoleAdmin)
	assert.ErrorIs(t, err, model.ErrInvalidFormat)
}

func TestAuth_RevocationCheckedBeforeLookup(t *testing.T) {
	ctx := context.Background()
	a := newAuth(t, token.NewPrefix())

	// logout does not require the user to exist
	require.NoError(t, a.Logout(ctx, "token-for-ghost@test.com"))

	_, err := a.AuthenticateAny(ctx, "token-for-ghost@test.com")
	assert.ErrorIs(t, err, model.ErrRevoked)

	assert.ErrorIs(t, a.Logout(ctx, "nope"), model.ErrInvalidFormat)
}

func TestAuth_Register(t *testing.T) {
	ctx := context.Background()
	a := newAuth(t, token.NewPrefix())

	require.NoError(t, a.Register(ctx, RegisterParams{Email: "a@test.com", Password: "pw", Name: "A"}))
	u, err := a.AuthenticateRole(ctx, "token-for-a@test.com", model.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, u.Role, "role defaults to user")
	assert.NotEqual(t, "pw", u.PasswordHash)

	err = a.Register(ctx, RegisterParams{Email: "a@test.com", Password: "pw", Name: "A"})
	assert.ErrorIs(t, err, model.ErrUserAlreadyExists)
}

func TestAuth_Register_Validation(t *testing.T) {
	tests := []struct {
		name   string
		params RegisterParams
	}{
		{name: "missing email", params: RegisterParams{Password: "pw", Name: "A"}},
		{name: "bad email", params: RegisterParams{Email: "not-an-email", Password: "pw", Name: "A"}},
		{name: "missing password", params: RegisterParams{Email: "a@test.com", Name: "A"}},
		{name: "missing name", params: RegisterParams{Email: "a@test.com", Password: "pw"}},
		{name: "unknown role", params: RegisterParams{Email: "a@test.com", Password: "pw", Name: "A", Role: "root"}},
		{name: "password too long", params: RegisterParams{Email: "a@test.com", Password: string(make([]byte, 73)), Name: "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAuth(t, token.NewPrefix())
			err := a.Register(context.Background(), tt.params)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestAuth_Register_ConcurrentDuplicate(t *testing.T) {
	ctx := context.Background()
	a := newAuth(t, token.NewPrefix())

	var ok atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := a.Register(ctx, RegisterParams{Email: "race@test.com", Password: "pw", Name: "R"})
			if err == nil {
				ok.Add(1)
				return
			}
			assert.ErrorIs(t, err, model.ErrUserAlreadyExists)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
}

func TestAuth_Login_Errors(t *testing.T) {
	ctx := context.Background()
	a := newAuth(t, token.NewPrefix())
	register(t, a, "alice@test.com", model.RoleUser)

	_, err := a.Login(ctx, "nonexistent@test.com", "wrongpass")
	assert.ErrorIs(t, err, model.ErrUserNotFound)

	_, err = a.Login(ctx, "alice@test.com", "wrongpass")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestAuth_StoreFailures(t *testing.T) {
	ctx := context.Background()

	userStore := servermocks.NewUserStore(t)
	codec := servermocks.NewTokenCodec(t)
	registry := servermocks.NewRevocationRegistry(t)
	hasher := servermocks.NewPasswordHasher(t)

	userStore.On("GetByEmail", mock.Anything, "a@b.c").Return(model.User{}, assert.AnError)
	userStore.On("List", mock.Anything).Return(nil, assert.AnError).Once()
	codec.On("Parse", "tok").Return("a@b.c", nil)
	registry.On("IsInvalidated", mock.Anything, "tok").Return(false, nil)

	a := NewAuth(userStore, codec, registry, hasher, testutil.MakeNoopLogger())

	err := a.Register(ctx, RegisterParams{Email: "a@b.c", Password: "pw", Name: "A"})
	assert.ErrorIs(t, err, assert.AnError)

	_, err = a.Login(ctx, "a@b.c", "pw")
	assert.ErrorIs(t, err, assert.AnError)

	_, err = a.AuthenticateAny(ctx, "tok")
	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, model.ErrUnknownUser)

	_, err = a.ListUsers(ctx)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestAuth_Register_CreateRace(t *testing.T) {
	ctx := context.Background()

	userStore := servermocks.NewUserStore(t)
	hasher := servermocks.NewPasswordHasher(t)

	userStore.On("GetByEmail", mock.Anything, "a@b.c").Return(model.User{}, model.ErrNotFound).Once()
	hasher.On("Hash", "pw").Return("hashed", nil).Once()
	userStore.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.Email == "a@b.c" && u.PasswordHash == "hashed" && u.Role == model.RoleUser
	})).Return(model.ErrAlreadyExists).Once()

	a := NewAuth(userStore, servermocks.NewTokenCodec(t), servermocks.NewRevocationRegistry(t), hasher, testutil.MakeNoopLogger())

	err := a.Register(ctx, RegisterParams{Email: "a@b.c", Password: "pw", Name: "A"})
	assert.ErrorIs(t, err, model.ErrUserAlreadyExists)
}

func TestAuth_ListUsers(t *testing.T) {
	ctx := context.Background()
	a := newAuth(t, token.NewPrefix())
	register(t, a, "b@test.com", model.RoleUser)
	register(t, a, "a@test.com", model.RoleAdmin)

	users, err := a.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "a@test.com", users[0].Email)
	assert.Equal(t, "b@test.com", users[1].Email)
}
