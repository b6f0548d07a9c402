// Package middleware provides the HTTP middlewares of the service: token
// authentication and role gates, request IDs, request logging, Prometheus
// instrumentation, rate limiting, body limits and security headers.
//
// Every middleware is generic over handler.Context and follows one pattern:
// a constructor with defaults, a WithConfig variant, an optional Skip
// function, and Get* helpers for values stored on the context.
//
//	r.Use(
//		middleware.RequestID[*Context](),
//		middleware.LoggingWithLogger[*Context](log),
//		middleware.Instrument[*Context](metrics),
//	)
//
//	r.Group(func(r router.Router[*Context]) {
//		r.Use(middleware.Auth[*Context](tokens))
//		r.Use(middleware.RequireRole[*Context](jwt.RoleAdmin))
//		r.Post("/admin/users", createUser)
//	})
//
// # Authentication
//
// Auth reads the token from "Authorization: Bearer <token>" first and from
// the "token" query parameter second, verifies it and stores the claims as
// the request principal (see GetPrincipal). Every rejection produces the
// same 401 body; with AuthConfig.Logger set, the detailed reason is logged
// at debug level. OptionalAuth lets anonymous requests through but still
// rejects invalid tokens. RequireRole answers 403 for principals outside
// the allowed roles.
//
// Logging redacts the token query parameter, so links such as
// /documents/{id}/file?token=... never put credentials into logs.
package middleware
