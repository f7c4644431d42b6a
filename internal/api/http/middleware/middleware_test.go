package middleware_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpcontext "github.com/dtroode/flower-server/internal/api/http/context"
	"github.com/dtroode/flower-server/internal/api/http/handler"
	"github.com/dtroode/flower-server/internal/api/http/middleware"
	"github.com/dtroode/flower-server/internal/model"
	"github.com/dtroode/flower-server/internal/testutil"
)

type fakeAuth struct {
	users   map[string]model.User
	revoked map[string]bool
}

func (f *fakeAuth) resolve(token string) (model.User, error) {
	if token == "bad" {
		return model.User{}, model.ErrInvalidFormat
	}
	if f.revoked[token] {
		return model.User{}, model.ErrRevoked
	}
	u, ok := f.users[token]
	if !ok {
		return model.User{}, model.ErrUnknownUser
	}
	return u, nil
}

func (f *fakeAuth) AuthenticateAny(_ context.Context, token string) (string, error) {
	u, err := f.resolve(token)
	return u.Email, err
}

func (f *fakeAuth) AuthenticateRole(_ context.Context, token string, role model.Role) (model.User, error) {
	u, err := f.resolve(token)
	if err != nil {
		return model.User{}, err
	}
	if u.Role != role {
		return model.User{}, model.ErrForbidden
	}
	return u, nil
}

type recorder struct {
	mu       sync.Mutex
	auth     map[string]int
	allowed  int
	rejected int
	routes   map[string]int
}

func newRecorder() *recorder {
	return &recorder{auth: map[string]int{}, routes: map[string]int{}}
}

func (r *recorder) ObserveAuth(action string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	outcome := "ok"
	if err != nil {
		outcome = "fail"
	}
	r.auth[action+":"+outcome]++
}

func (r *recorder) ObserveRateLimit(allowed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if allowed {
		r.allowed++
	} else {
		r.rejected++
	}
}

func (r *recorder) ObserveRequest(method, route string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[method+" "+route+" "+http.StatusText(status)]++
}

func newApp(t *testing.T) (*fiber.App, *recorder) {
	t.Helper()

	rec := newRecorder()
	auth := &fakeAuth{
		users: map[string]model.User{
			"user-token":  {Email: "user@test.com", Role: model.RoleUser},
			"admin-token": {Email: "admin@test.com", Role: model.RoleAdmin},
		},
		revoked: map[string]bool{"revoked-token": true},
	}
	cm := httpcontext.NewManager()
	lg := testutil.MakeNoopLogger()
	authenticate := middleware.NewAuthenticate(auth, cm, rec, lg)

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler(lg)})
	app.Use(middleware.NewLogging(lg).HandleHTTP)
	app.Use(middleware.NewMetrics(rec).HandleHTTP)

	app.Get("/any", authenticate.Any(), func(c *fiber.Ctx) error {
		email, _ := cm.GetEmail(c)
		return c.SendString(email)
	})
	app.Get("/admin", authenticate.Role(model.RoleAdmin), func(c *fiber.Ctx) error {
		u, _ := cm.GetUser(c)
		return c.SendString(string(u.Role))
	})

	return app, rec
}

func detail(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Detail
}

func TestAuthenticate(t *testing.T) {
	app, rec := newApp(t)

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantBody   string
		wantDetail string
	}{
		{name: "any ok", path: "/any", header: "Bearer user-token", wantStatus: 200, wantBody: "user@test.com"},
		{name: "lowercase scheme", path: "/any", header: "bearer user-token", wantStatus: 200, wantBody: "user@test.com"},
		{name: "query fallback", path: "/any?token=user-token", wantStatus: 200, wantBody: "user@test.com"},
		{name: "missing", path: "/any", wantStatus: 401, wantDetail: "Not authenticated."},
		{name: "wrong scheme", path: "/any", header: "Basic abc", wantStatus: 401, wantDetail: "Not authenticated."},
		{name: "invalid format", path: "/any", header: "Bearer bad", wantStatus: 401, wantDetail: "Invalid token format."},
		{name: "revoked", path: "/any", header: "Bearer revoked-token", wantStatus: 401, wantDetail: "Token has been invalidated."},
		{name: "unknown user", path: "/any", header: "Bearer ghost", wantStatus: 401, wantDetail: "Unknown user."},
		{name: "admin ok", path: "/admin", header: "Bearer admin-token", wantStatus: 200, wantBody: "admin"},
		{name: "admin forbidden", path: "/admin", header: "Bearer user-token", wantStatus: 403, wantDetail: "Not enough permissions."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, detail(t, resp))
				if tt.wantStatus == http.StatusUnauthorized {
					assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
				}
				return
			}
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBody, string(body))
		})
	}

	assert.Equal(t, 4, rec.auth["authenticate:ok"])
	assert.Equal(t, 6, rec.auth["authenticate:fail"])
	assert.Equal(t, 3, rec.routes["GET /any OK"])
	assert.Equal(t, 1, rec.routes["GET /admin Forbidden"])
}

type stubLimiter struct {
	mu    sync.Mutex
	seen  map[string]int
	limit int
}

func (s *stubLimiter) Check(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[key] >= s.limit {
		return model.ErrRateLimitExceeded
	}
	s.seen[key]++
	return nil
}

func TestRateLimit(t *testing.T) {
	rec := newRecorder()
	limiter := &stubLimiter{seen: map[string]int{}, limit: 2}
	lg := testutil.MakeNoopLogger()

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler(lg)})
	app.Get("/limited", middleware.NewRateLimit(limiter, rec, middleware.QueryKey("user_id"), lg).Handle,
		func(c *fiber.Ctx) error { return c.SendString("ok") })

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/limited?user_id=testuser", nil))
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
		if resp.StatusCode == http.StatusTooManyRequests {
			assert.Equal(t, "Rate limit exceeded", detail(t, resp))
		}
	}
	assert.Equal(t, []int{200, 200, 429}, statuses)

	// another key has its own window
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/limited?user_id=other", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 3, rec.allowed)
	assert.Equal(t, 1, rec.rejected)
}

func TestQueryKey_FallsBackToIP(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(middleware.QueryKey("user_id")(c))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotEmpty(t, string(body))
}

func TestMetrics_PanicBecomes500(t *testing.T) {
	rec := newRecorder()
	lg := testutil.MakeNoopLogger()

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler(lg)})
	app.Use(middleware.NewLogging(lg).HandleHTTP)
	app.Use(middleware.NewMetrics(rec).HandleHTTP)
	app.Use(func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fiber.ErrInternalServerError
			}
		}()
		return c.Next()
	})
	app.Get("/boom", func(c *fiber.Ctx) error { panic("boom") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	assert.Equal(t, 1, rec.routes["GET /boom Internal Server Error"])
	assert.Equal(t, 1, rec.routes["GET unmatched Not Found"])
}
