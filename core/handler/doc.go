// Package handler defines the request-processing abstractions shared by the
// router, middlewares and application handlers.
//
//	type Response func(w http.ResponseWriter, r *http.Request) error
//	type HandlerFunc[C Context] func(ctx C) Response
//	type ErrorHandler[C Context] func(ctx C, err error)
//	type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]
//
// A handler decides what to send and returns a Response that renders it.
// Errors returned while rendering go to the router's ErrorHandler.
//
// Context extends context.Context with the request, the response writer,
// path parameters and SetValue, which middlewares use to attach values such
// as the authenticated principal.
package handler
