package receiptbook

import (
	"github.com/dmitrymomot/receiptbook/core/health"
	"github.com/dmitrymomot/receiptbook/core/response"
	"github.com/dmitrymomot/receiptbook/core/router"
	"github.com/dmitrymomot/receiptbook/middleware"
	"github.com/dmitrymomot/receiptbook/pkg/jwt"
)

func (a *App) routes() router.Router[*Context] {
	r := router.New[*Context](
		router.WithContextFactory(newContext),
		router.WithErrorHandler(response.JSONErrorHandlerWithLogger[*Context](a.logger)),
		router.WithLogger[*Context](a.logger),
	)

	r.Use(
		middleware.RequestID[*Context](),
		middleware.LoggingWithLogger[*Context](a.logger),
		middleware.Instrument[*Context](a.metrics),
		middleware.SecurityHeaders[*Context](),
		middleware.BodyLimit[*Context](a.config.MaxBodySize),
	)

	r.Get("/health/live", health.Liveness[*Context])
	r.Get("/health/ready", health.Readiness[*Context](a.logger, a.checks...))
	r.Get("/metrics", middleware.MetricsHandler[*Context](a.registry))

	authenticated := middleware.AuthWithConfig[*Context](middleware.AuthConfig{
		Service: a.tokens,
		Logger:  a.logger,
	})

	r.Group(func(r router.Router[*Context]) {
		r.Use(middleware.RateLimit[*Context](middleware.RateLimitConfig{
			Limiter:      a.limiter,
			KeyExtractor: middleware.KeyWithPrefix("login:", middleware.ClientIPKey),
			SetHeaders:   true,
			Logger:       a.logger,
		}))
		r.Post("/auth/login", a.login)
	})

	r.Group(func(r router.Router[*Context]) {
		r.Use(middleware.AuthWithConfig[*Context](middleware.AuthConfig{
			Service:  a.tokens,
			Optional: true,
			Logger:   a.logger,
		}))
		r.Get("/auth/session", a.session)
	})

	r.Group(func(r router.Router[*Context]) {
		r.Use(authenticated)
		r.Get("/auth/me", a.me)
		r.Post("/auth/password", a.changePassword)
		r.Get("/documents", a.listDocuments)
		r.Get("/documents/{id}/file", a.downloadDocument)
	})

	r.Group(func(r router.Router[*Context]) {
		r.Use(authenticated, middleware.RequireRole[*Context](jwt.RoleAdmin))
		r.Post("/admin/users", a.createUser)
	})

	return r
}
