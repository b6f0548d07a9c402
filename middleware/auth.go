package middleware

import (
	"log/slog"
	"strings"

	"github.com/dmitrymomot/receiptbook/core/handler"
	"github.com/dmitrymomot/receiptbook/core/logger"
	"github.com/dmitrymomot/receiptbook/core/response"
	"github.com/dmitrymomot/receiptbook/pkg/jwt"
)

// principalContextKey is used as a key for storing the verified claims in request context.
type principalContextKey struct{}

// AuthConfig configures the token authentication middleware.
type AuthConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// Service verifies tokens. Required.
	Service *jwt.Service
	// TokenExtractor defines where the token comes from
	// (default: Bearer header, then the "token" query parameter)
	TokenExtractor func(ctx handler.Context) string
	// Optional lets requests without a token through without a principal.
	// A token that is present but invalid is still rejected.
	Optional bool
	// Logger receives the detailed rejection reason at debug level.
	// The response never carries it.
	Logger *slog.Logger
	// ErrorHandler builds the response for rejected requests (default: 401 Unauthorized)
	ErrorHandler func(ctx handler.Context, err error) handler.Response
}

// Auth requires a valid token on every request and stores its claims as the
// request principal. Missing or invalid tokens get 401 Unauthorized.
//
// Usage:
//
//	r.Group(func(r router.Router[*Context]) {
//		r.Use(middleware.Auth[*Context](tokens))
//		r.Get("/auth/me", handleMe)
//	})
func Auth[C handler.Context](svc *jwt.Service) handler.Middleware[C] {
	return AuthWithConfig[C](AuthConfig{Service: svc})
}

// OptionalAuth attaches a principal when a valid token is present and lets
// anonymous requests through. A token that fails verification is rejected
// the same way Auth rejects it.
func OptionalAuth[C handler.Context](svc *jwt.Service) handler.Middleware[C] {
	return AuthWithConfig[C](AuthConfig{Service: svc, Optional: true})
}

// AuthWithConfig creates the authentication middleware with custom configuration.
// Panics if the service is not provided.
func AuthWithConfig[C handler.Context](cfg AuthConfig) handler.Middleware[C] {
	if cfg.Service == nil {
		panic("auth middleware: service is required")
	}

	if cfg.TokenExtractor == nil {
		cfg.TokenExtractor = TokenFromMultiple(
			TokenFromBearerHeader(),
			TokenFromQuery("token"),
		)
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(ctx handler.Context, err error) handler.Response {
			return response.Error(response.ErrUnauthorized)
		}
	}

	verify := cfg.Service.Verify
	if cfg.Logger != nil {
		verify = cfg.Service.VerifyDetailed
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			token := cfg.TokenExtractor(ctx)
			if token == "" {
				if cfg.Optional {
					return next(ctx)
				}
				return cfg.ErrorHandler(ctx, jwt.ErrInvalidToken)
			}

			claims, err := verify(token)
			if err != nil {
				if cfg.Logger != nil {
					req := ctx.Request()
					cfg.Logger.DebugContext(ctx, "token rejected",
						logger.Error(err),
						logger.Method(req.Method),
						logger.Path(req.URL.Path),
					)
				}
				return cfg.ErrorHandler(ctx, jwt.ErrInvalidToken)
			}

			ctx.SetValue(principalContextKey{}, claims)
			return next(ctx)
		}
	}
}

// RequireRole lets the request through only when the principal holds one of
// roles. Requests without a principal get 401, others 403 Forbidden.
// Must be used after Auth or OptionalAuth.
func RequireRole[C handler.Context](roles ...jwt.Role) handler.Middleware[C] {
	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			principal, ok := GetPrincipal(ctx)
			if !ok {
				return response.Error(response.ErrUnauthorized)
			}
			if !principal.HasRole(roles...) {
				return response.Error(response.ErrForbidden)
			}
			return next(ctx)
		}
	}
}

// GetPrincipal returns the verified claims stored by the auth middleware.
func GetPrincipal(ctx handler.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(principalContextKey{}).(*jwt.Claims)
	if !ok || claims == nil {
		return nil, false
	}
	return claims, true
}

// TokenFromBearerHeader returns an extractor for "Authorization: Bearer <token>".
// The scheme match is exact and case-sensitive; anything else yields no token.
func TokenFromBearerHeader() func(handler.Context) string {
	const bearerPrefix = "Bearer "
	return func(ctx handler.Context) string {
		auth := ctx.Request().Header.Get("Authorization")
		if !strings.HasPrefix(auth, bearerPrefix) {
			return ""
		}
		return auth[len(bearerPrefix):]
	}
}

// TokenFromQuery returns an extractor that reads a URL query parameter.
func TokenFromQuery(paramName string) func(handler.Context) string {
	return func(ctx handler.Context) string {
		return ctx.Request().URL.Query().Get(paramName)
	}
}

// TokenFromMultiple tries extractors in order and returns the first non-empty token.
func TokenFromMultiple(extractors ...func(handler.Context) string) func(handler.Context) string {
	return func(ctx handler.Context) string {
		for _, extractor := range extractors {
			if token := extractor(ctx); token != "" {
				return token
			}
		}
		return ""
	}
}
