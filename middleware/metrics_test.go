package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/receiptbook/core/handler"
	"github.com/dmitrymomot/receiptbook/core/response"
	"github.com/dmitrymomot/receiptbook/core/router"
	"github.com/dmitrymomot/receiptbook/middleware"
	"github.com/dmitrymomot/receiptbook/pkg/ratelimiter"
)

func TestInstrument(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	metrics := middleware.NewMetrics(registry, "test")

	limiter, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.PerWindow(1, time.Minute))
	require.NoError(t, err)

	r := router.New[*router.Context](router.WithErrorHandler(response.JSONErrorHandler[*router.Context]))
	r.Use(middleware.Instrument[*router.Context](metrics))
	r.Get("/metrics", middleware.MetricsHandler[*router.Context](registry))
	r.Get("/documents/{id}", func(ctx *router.Context) handler.Response {
		if ctx.Param("id") == "missing" {
			return response.Error(response.ErrNotFound)
		}
		return response.String("doc")
	})
	r.Group(func(r router.Router[*router.Context]) {
		r.Use(middleware.RateLimit[*router.Context](middleware.RateLimitConfig{Limiter: limiter}))
		r.Post("/auth/login", func(ctx *router.Context) handler.Response { return response.String("ok") })
	})

	for _, target := range []string{"/documents/a", "/documents/b", "/documents/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}
	for range 2 {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/documents/{id}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/documents/{id}", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RateLimitedTotal.WithLabelValues("/auth/login")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `test_http_requests_total{method="GET",route="/documents/{id}",status="200"} 2`)
}
