package middleware

import (
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/receiptbook/core/handler"
	"github.com/dmitrymomot/receiptbook/core/logger"
	"github.com/dmitrymomot/receiptbook/core/response"
	"github.com/dmitrymomot/receiptbook/pkg/ratelimiter"
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// Limiter is the rate limiting implementation to use
	Limiter ratelimiter.RateLimiter
	// KeyExtractor defines how to extract the rate limiting key from requests (default: client IP)
	KeyExtractor func(ctx handler.Context) string
	// ErrorHandler defines how to handle rate limit violations (default: 429 Too Many Requests)
	ErrorHandler func(ctx handler.Context, result *ratelimiter.Result) handler.Response
	// SetHeaders determines whether to include rate limit information in response headers
	SetHeaders bool
	// Logger receives limiter backend failures (default: discard)
	Logger *slog.Logger
}

// RateLimit creates a rate limiting middleware with the provided configuration.
// Panics if no limiter is provided.
//
// Usage:
//
//	r.Group(func(r router.Router[*Context]) {
//		r.Use(middleware.RateLimit[*Context](middleware.RateLimitConfig{
//			Limiter:      loginLimiter,
//			KeyExtractor: middleware.KeyWithPrefix("login:", middleware.ClientIPKey),
//			SetHeaders:   true,
//		}))
//		r.Post("/auth/login", handleLogin)
//	})
//
// Limiter failures are reported as 503 so a broken backend never silently
// disables throttling.
func RateLimit[C handler.Context](cfg RateLimitConfig) handler.Middleware[C] {
	if cfg.Limiter == nil {
		panic("ratelimit middleware: limiter is required")
	}

	if cfg.KeyExtractor == nil {
		cfg.KeyExtractor = ClientIPKey
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(ctx handler.Context, result *ratelimiter.Result) handler.Response {
			err := response.ErrTooManyRequests
			if result != nil && result.RetryAfter() > 0 {
				err = err.WithDetails(map[string]any{
					"retry_after": retryAfterSeconds(result),
				})
			}
			return response.Error(err)
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			key := cfg.KeyExtractor(ctx)
			result, err := cfg.Limiter.Allow(ctx, key)
			if err != nil {
				cfg.Logger.ErrorContext(ctx, "rate limiter unavailable",
					logger.Error(err),
					logger.Component("ratelimit"),
				)
				return response.Error(response.ErrServiceUnavailable)
			}

			var resp handler.Response
			if result.Allowed() {
				resp = next(ctx)
			} else {
				resp = cfg.ErrorHandler(ctx, result)
			}

			if cfg.SetHeaders && resp != nil {
				return wrapWithRateLimitHeaders(resp, result)
			}
			return resp
		}
	}
}

// ClientIPKey uses the host part of the peer address as the limiter key.
// Proxy headers are not trusted.
func ClientIPKey(ctx handler.Context) string {
	addr := ctx.Request().RemoteAddr
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// KeyWithPrefix namespaces the keys of extract so that several limiters can
// share one store.
func KeyWithPrefix(prefix string, extract func(handler.Context) string) func(handler.Context) string {
	return func(ctx handler.Context) string {
		return prefix + extract(ctx)
	}
}

// wrapWithRateLimitHeaders adds X-RateLimit-Limit, X-RateLimit-Remaining,
// X-RateLimit-Reset and, when blocked, Retry-After.
func wrapWithRateLimitHeaders(resp handler.Response, result *ratelimiter.Result) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed() && result.RetryAfter() > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(result)))
		}

		return resp(w, r)
	}
}

// retryAfterSeconds rounds up so clients never retry too early.
func retryAfterSeconds(result *ratelimiter.Result) int {
	return int(math.Ceil(result.RetryAfter().Seconds()))
}
