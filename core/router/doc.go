// Package router adapts gorilla/mux to type-safe handlers with custom
// request contexts.
//
//	r := router.New[*router.Context](
//		router.WithErrorHandler(response.JSONErrorHandler[*router.Context]),
//	)
//	r.Use(middleware.RequestID[*router.Context]())
//	r.Get("/health/live", liveHandler)
//	r.Route("/auth", func(r router.Router[*router.Context]) {
//		r.Post("/login", loginHandler)
//	})
//
// Path parameters use gorilla syntax ("/documents/{id}") and are exposed
// through Context.Param. Middlewares registered with Use apply to routes
// added afterwards, including those in groups and sub-routers. Use panics
// if called after a route has been registered on the same router.
//
// Unmatched paths and methods are passed to the error handler as
// ErrNotFound and ErrMethodNotAllowed, which carry 404 and 405 status codes.
// Panics in handlers are recovered and reported as PanicError.
package router
