package router

import (
	"net/http"

	gmux "github.com/gorilla/mux"

	"github.com/dmitrymomot/receiptbook/core/handler"
)

// Router is the main routing interface for handling HTTP requests.
// It supports middleware chaining, inline groups and prefixed sub-routers.
type Router[C handler.Context] interface {
	http.Handler
	Routes

	// HTTP method handlers
	Get(pattern string, h handler.HandlerFunc[C])
	Post(pattern string, h handler.HandlerFunc[C])
	Put(pattern string, h handler.HandlerFunc[C])
	Patch(pattern string, h handler.HandlerFunc[C])
	Delete(pattern string, h handler.HandlerFunc[C])

	// Generic handlers
	Handle(pattern string, h handler.HandlerFunc[C])
	Method(pattern string, h handler.HandlerFunc[C], methods ...string)

	// Middleware
	Use(middlewares ...handler.Middleware[C])

	// Grouping
	Group(fn func(r Router[C])) Router[C]
	Route(prefix string, fn func(r Router[C])) Router[C]
}

// Routes provides route introspection for debugging and startup logging.
type Routes interface {
	Routes() []Route
}

// Route describes a single registered route. Method is empty for routes
// registered with Handle.
type Route struct {
	Method  string
	Pattern string
}

// New creates a new router with the given options.
func New[C handler.Context](opts ...Option[C]) Router[C] {
	return newMux[C](opts...)
}

// RoutePattern returns the template of the route that matched r, such as
// "/documents/{id}/file", or an empty string outside a matched route.
func RoutePattern(r *http.Request) string {
	route := gmux.CurrentRoute(r)
	if route == nil {
		return ""
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return ""
	}
	return tpl
}
