package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/dmitrymomot/receiptbook/core/handler"
	"github.com/dmitrymomot/receiptbook/core/logger"
	"github.com/dmitrymomot/receiptbook/core/router"
)

// LoggingConfig configures the request logging middleware.
type LoggingConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool

	// Logger is the slog logger to use (default: slog.Default())
	Logger *slog.Logger

	// LogLevel for successful requests (default: slog.LevelInfo)
	LogLevel slog.Level

	// LogHeaders enables logging of request headers (default: false)
	LogHeaders bool

	// SensitiveHeaders are redacted when LogHeaders is on (default: common auth headers)
	SensitiveHeaders []string

	// RedactQueryParams lists query parameters whose values are never logged
	// (default: "token")
	RedactQueryParams []string

	// SlowRequestThreshold logs slow requests at warning level (default: 5s)
	SlowRequestThreshold time.Duration

	// Component name for structured logging
	Component string
}

// Logging creates a request logging middleware with default configuration.
func Logging[C handler.Context]() handler.Middleware[C] {
	return LoggingWithConfig[C](LoggingConfig{})
}

// LoggingWithLogger creates a logging middleware with a custom logger.
func LoggingWithLogger[C handler.Context](log *slog.Logger) handler.Middleware[C] {
	return LoggingWithConfig[C](LoggingConfig{
		Logger: log,
	})
}

// LoggingWithConfig creates a logging middleware. The start of a request is
// logged at debug level; completion is logged once the response has been
// rendered, at a level derived from status and duration. Request bodies are
// never logged since they carry credentials.
func LoggingWithConfig[C handler.Context](cfg LoggingConfig) handler.Middleware[C] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if cfg.SensitiveHeaders == nil {
		cfg.SensitiveHeaders = []string{
			"Authorization",
			"Cookie",
			"Set-Cookie",
			"X-Api-Key",
		}
	}

	if cfg.RedactQueryParams == nil {
		cfg.RedactQueryParams = []string{"token"}
	}

	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}

	if cfg.Component == "" {
		cfg.Component = "http"
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			start := time.Now()
			req := ctx.Request()
			cfg.Logger.LogAttrs(ctx, slog.LevelDebug, "HTTP request started",
				logger.Component(cfg.Component),
				logger.Method(req.Method),
				logger.Path(req.URL.Path),
				logger.Query(req.URL.RawQuery, cfg.RedactQueryParams...),
			)

			resp := next(ctx)
			if resp == nil {
				return nil
			}

			return func(w http.ResponseWriter, r *http.Request) error {
				wrapped := newCaptureWriter(w)
				err := resp(wrapped, r)

				duration := time.Since(start)
				status := wrapped.status(err)

				attrs := []slog.Attr{
					logger.Component(cfg.Component),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.Route(router.RoutePattern(r)),
					logger.Query(r.URL.RawQuery, cfg.RedactQueryParams...),
					logger.RemoteAddr(r.RemoteAddr),
					logger.StatusCode(status),
					logger.BytesOut(int64(wrapped.size)),
					logger.Duration(duration),
				}

				if id, ok := GetRequestID(ctx); ok {
					attrs = append(attrs, logger.RequestID(id))
				}
				if principal, ok := GetPrincipal(ctx); ok {
					attrs = append(attrs, logger.UserID(principal.Subject), logger.Role(principal.Role.String()))
				}

				if cfg.LogHeaders {
					headers := make(map[string]any, len(r.Header))
					for key, values := range r.Header {
						switch {
						case slices.Contains(cfg.SensitiveHeaders, key):
							headers[key] = "[REDACTED]"
						case len(values) == 1:
							headers[key] = values[0]
						default:
							headers[key] = values
						}
					}
					attrs = append(attrs, slog.Any("request_headers", headers))
				}

				level := cfg.LogLevel
				switch {
				case status >= http.StatusInternalServerError:
					level = slog.LevelError
					attrs = append(attrs, logger.Error(err))
				case status >= http.StatusBadRequest:
					level = slog.LevelWarn
				case duration > cfg.SlowRequestThreshold:
					level = slog.LevelWarn
					attrs = append(attrs, slog.Bool("slow_request", true))
				}

				cfg.Logger.LogAttrs(ctx, level, "HTTP request completed", attrs...)
				return err
			}
		}
	}
}
