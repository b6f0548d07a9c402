package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/receiptbook/core/handler"
	"github.com/dmitrymomot/receiptbook/core/response"
	"github.com/dmitrymomot/receiptbook/core/router"
	"github.com/dmitrymomot/receiptbook/middleware"
	"github.com/dmitrymomot/receiptbook/pkg/jwt"
)

// lastRecord decodes the last JSON log line in buf.
func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &rec))
	return rec
}

func TestLoggingRedactsToken(t *testing.T) {
	t.Parallel()

	svc := newTokens(t)
	token := issue(t, svc, "alice", jwt.RoleClient)

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := router.New[*router.Context](router.WithErrorHandler(response.JSONErrorHandler[*router.Context]))
	r.Use(
		middleware.LoggingWithLogger[*router.Context](log),
		middleware.Auth[*router.Context](svc),
	)
	r.Get("/documents/{id}/file", func(ctx *router.Context) handler.Response {
		return response.String("file")
	})

	req := httptest.NewRequest(http.MethodGet, "/documents/d1/file?token="+token+"&download=1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	assert.NotContains(t, buf.String(), token)
	assert.Contains(t, buf.String(), "HTTP request started")

	rec := lastRecord(t, &buf)
	assert.Equal(t, "HTTP request completed", rec["msg"])
	assert.Equal(t, "/documents/{id}/file", rec["route"])
	assert.Equal(t, float64(http.StatusOK), rec["status_code"])
	assert.Equal(t, "alice", rec["user_id"])
	assert.Contains(t, rec["query"], "REDACTED")
}

func TestLoggingStatusFromError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	r := router.New[*router.Context](router.WithErrorHandler(response.JSONErrorHandler[*router.Context]))
	r.Use(middleware.LoggingWithLogger[*router.Context](log))
	r.Get("/forbidden", func(ctx *router.Context) handler.Response {
		return response.Error(response.ErrForbidden)
	})
	r.Get("/boom", func(ctx *router.Context) handler.Response {
		return response.Error(assert.AnError)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/forbidden", nil))
	rec := lastRecord(t, &buf)
	assert.Equal(t, float64(http.StatusForbidden), rec["status_code"])
	assert.Equal(t, "WARN", rec["level"])

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	rec = lastRecord(t, &buf)
	assert.Equal(t, float64(http.StatusInternalServerError), rec["status_code"])
	assert.Equal(t, "ERROR", rec["level"])
}

func TestLoggingHeadersRedacted(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	r := router.New[*router.Context]()
	r.Use(middleware.LoggingWithConfig[*router.Context](middleware.LoggingConfig{
		Logger:     log,
		LogHeaders: true,
	}))
	r.Get("/", func(ctx *router.Context) handler.Response { return response.String("ok") })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer secret-value")
	req.Header.Set("Accept", "application/json")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.NotContains(t, buf.String(), "secret-value")
	headers, ok := lastRecord(t, &buf)["request_headers"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "[REDACTED]", headers["Authorization"])
	assert.Equal(t, "application/json", headers["Accept"])
}
