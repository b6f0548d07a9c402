package middleware

import (
	"net/http"

	"github.com/dmitrymomot/receiptbook/core/handler"
	"github.com/dmitrymomot/receiptbook/core/response"
)

// BodyLimitConfig configures the request body size limit.
type BodyLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// MaxSize is the maximum allowed size in bytes (default: 1MB)
	MaxSize int64
}

// BodyLimit caps request bodies at maxSize bytes. Requests that declare a
// larger Content-Length get 413 at once; bodies without one are cut off by
// http.MaxBytesReader while the handler reads them.
func BodyLimit[C handler.Context](maxSize int64) handler.Middleware[C] {
	return BodyLimitWithConfig[C](BodyLimitConfig{MaxSize: maxSize})
}

// BodyLimitWithConfig creates the body limit middleware with custom configuration.
func BodyLimitWithConfig[C handler.Context](cfg BodyLimitConfig) handler.Middleware[C] {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 1 << 20
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			req := ctx.Request()
			if req.ContentLength > cfg.MaxSize {
				return response.Error(response.ErrRequestEntityTooLarge.WithDetails(map[string]any{
					"limit": cfg.MaxSize,
				}))
			}

			if req.Body != nil && req.Body != http.NoBody {
				req.Body = http.MaxBytesReader(ctx.ResponseWriter(), req.Body, cfg.MaxSize)
			}

			return next(ctx)
		}
	}
}
