package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/receiptbook/core/handler"
	"github.com/dmitrymomot/receiptbook/core/response"
	"github.com/dmitrymomot/receiptbook/core/router"
	"github.com/dmitrymomot/receiptbook/middleware"
	"github.com/dmitrymomot/receiptbook/pkg/jwt"
)

const testSecret = "s3cret"

var testNow = time.Unix(1_700_000_000, 0)

func newTokens(t *testing.T) *jwt.Service {
	t.Helper()
	svc, err := jwt.NewFromString(testSecret, jwt.WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	return svc
}

func issue(t *testing.T, svc *jwt.Service, sub string, role jwt.Role) string {
	t.Helper()
	claims := jwt.Claims{Subject: sub, Email: sub + "@example.com", Role: role}
	if role == jwt.RoleClient {
		company := "c1"
		claims.CompanyID = &company
	}
	token, err := svc.Issue(claims)
	require.NoError(t, err)
	return token
}

// whoami answers with the principal subject or "anonymous".
func whoami(ctx *router.Context) handler.Response {
	if p, ok := middleware.GetPrincipal(ctx); ok {
		return response.String(p.Subject)
	}
	return response.String("anonymous")
}

func newAuthRouter(mws ...handler.Middleware[*router.Context]) router.Router[*router.Context] {
	r := router.New[*router.Context](router.WithErrorHandler(response.JSONErrorHandler[*router.Context]))
	r.Use(mws...)
	r.Get("/me", whoami)
	return r
}

func do(h http.Handler, target string, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestAuthTokenSources(t *testing.T) {
	t.Parallel()

	svc := newTokens(t)
	alice := issue(t, svc, "alice", jwt.RoleClient)
	bob := issue(t, svc, "bob", jwt.RoleClient)
	r := newAuthRouter(middleware.Auth[*router.Context](svc))

	t.Run("bearer header attaches principal", func(t *testing.T) {
		t.Parallel()
		w := do(r, "/me", "Bearer "+alice)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "alice", w.Body.String())
	})

	t.Run("query token attaches the same principal", func(t *testing.T) {
		t.Parallel()
		w := do(r, "/me?token="+alice, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "alice", w.Body.String())
	})

	t.Run("header takes precedence over query", func(t *testing.T) {
		t.Parallel()
		w := do(r, "/me?token="+bob, "Bearer "+alice)
		assert.Equal(t, "alice", w.Body.String())
	})

	t.Run("non-bearer header falls back to query", func(t *testing.T) {
		t.Parallel()
		w := do(r, "/me?token="+bob, "Basic Zm9vOmJhcg==")
		assert.Equal(t, "bob", w.Body.String())
	})
}

func TestAuthRejections(t *testing.T) {
	t.Parallel()

	svc := newTokens(t)
	valid := issue(t, svc, "alice", jwt.RoleAdmin)

	other, err := jwt.NewFromString("wrong", jwt.WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	forged := issue(t, other, "mallory", jwt.RoleAdmin)

	expiredSvc, err := jwt.NewFromString(testSecret, jwt.WithClock(func() time.Time { return testNow.Add(-jwt.TTL - time.Second) }))
	require.NoError(t, err)
	expired := issue(t, expiredSvc, "alice", jwt.RoleAdmin)

	r := newAuthRouter(middleware.Auth[*router.Context](svc))

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"lowercase scheme", "bearer " + valid},
		{"no space", "Bearer" + valid},
		{"garbage", "Bearer not-a-token"},
		{"wrong secret", "Bearer " + forged},
		{"expired", "Bearer " + expired},
	}

	var bodies [][]byte
	for _, tt := range tests {
		w := do(r, "/me", tt.header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, tt.name)
		bodies = append(bodies, w.Body.Bytes())
	}

	for i := 1; i < len(bodies); i++ {
		assert.Equal(t, string(bodies[0]), string(bodies[i]), "401 body must not reveal the failure kind (%s)", tests[i].name)
	}

	var body map[string]any
	require.NoError(t, json.Unmarshal(bodies[0], &body))
	assert.Equal(t, "unauthorized", body["code"])
}

func TestAuthDebugLogging(t *testing.T) {
	t.Parallel()

	svc := newTokens(t)
	other, err := jwt.NewFromString("wrong")
	require.NoError(t, err)
	forged := issue(t, other, "mallory", jwt.RoleAdmin)

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := newAuthRouter(middleware.AuthWithConfig[*router.Context](middleware.AuthConfig{
		Service: svc,
		Logger:  log,
	}))

	w := do(r, "/me", "Bearer "+forged)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, buf.String(), "token rejected")
	assert.Contains(t, buf.String(), jwt.ErrInvalidSignature.Error())
	assert.NotContains(t, w.Body.String(), "signature")
}

func TestOptionalAuth(t *testing.T) {
	t.Parallel()

	svc := newTokens(t)
	r := newAuthRouter(middleware.OptionalAuth[*router.Context](svc))

	w := do(r, "/me", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())

	w = do(r, "/me", "Bearer "+issue(t, svc, "alice", jwt.RoleClient))
	assert.Equal(t, "alice", w.Body.String())

	w = do(r, "/me", "Bearer invalid.token.value")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthSkip(t *testing.T) {
	t.Parallel()

	svc := newTokens(t)
	r := newAuthRouter(middleware.AuthWithConfig[*router.Context](middleware.AuthConfig{
		Service: svc,
		Skip:    func(ctx handler.Context) bool { return ctx.Request().Header.Get("X-Internal") == "1" },
	}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("X-Internal", "1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "anonymous", w.Body.String())
}

func TestAuthRequiresService(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { middleware.Auth[*router.Context](nil) })
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	svc := newTokens(t)
	r := newAuthRouter(
		middleware.Auth[*router.Context](svc),
		middleware.RequireRole[*router.Context](jwt.RoleAdmin),
	)

	t.Run("client is forbidden", func(t *testing.T) {
		t.Parallel()
		w := do(r, "/me", "Bearer "+issue(t, svc, "carol", jwt.RoleClient))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin passes", func(t *testing.T) {
		t.Parallel()
		w := do(r, "/me", "Bearer "+issue(t, svc, "root", jwt.RoleAdmin))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "root", w.Body.String())
	})

	t.Run("no principal is unauthorized", func(t *testing.T) {
		t.Parallel()
		gateOnly := newAuthRouter(middleware.RequireRole[*router.Context](jwt.RoleAdmin))
		w := do(gateOnly, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("several roles", func(t *testing.T) {
		t.Parallel()
		both := newAuthRouter(
			middleware.Auth[*router.Context](svc),
			middleware.RequireRole[*router.Context](jwt.RoleAdmin, jwt.RoleClient),
		)
		w := do(both, "/me", "Bearer "+issue(t, svc, "carol", jwt.RoleClient))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestTokenExtractors(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/x?token=q&alt=a", nil)
	req.Header.Set("Authorization", "Bearer h")
	ctx := router.NewContext(httptest.NewRecorder(), req, nil)

	assert.Equal(t, "h", middleware.TokenFromBearerHeader()(ctx))
	assert.Equal(t, "q", middleware.TokenFromQuery("token")(ctx))
	assert.Equal(t, "a", middleware.TokenFromMultiple(
		middleware.TokenFromQuery("missing"),
		middleware.TokenFromQuery("alt"),
	)(ctx))
	assert.Empty(t, middleware.TokenFromMultiple()(ctx))
}
