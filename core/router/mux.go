package router

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"

	gmux "github.com/gorilla/mux"

	"github.com/dmitrymomot/receiptbook/core/handler"
)

// mux is the private implementation of Router on top of gorilla/mux.
// Groups share the underlying gorilla router; sub-routers get their own
// prefixed one. Middlewares are chained into each handler at registration.
type mux[C handler.Context] struct {
	r            *gmux.Router
	middlewares  []handler.Middleware[C]
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request, map[string]string) C
	logger       *slog.Logger
	routes       *[]Route
	prefix       string
	hasRoutes    bool
}

// newMux creates a root router instance.
func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	m := &mux[C]{
		r:            gmux.NewRouter(),
		errorHandler: defaultErrorHandler[C],
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		routes:       &[]Route{},
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.newContext == nil {
		m.newContext = func(w http.ResponseWriter, r *http.Request, params map[string]string) C {
			// Only the default *Context works without a factory.
			var zero C
			if _, ok := any(zero).(*Context); ok {
				return any(newContext(w, r, params)).(C)
			}
			panic(ErrNoContextFactory)
		}
	}

	m.r.NotFoundHandler = m.fail(ErrNotFound)
	m.r.MethodNotAllowedHandler = m.fail(ErrMethodNotAllowed)

	return m
}

// ServeHTTP implements http.Handler.
func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.r.ServeHTTP(w, r)
}

// Get registers a handler for GET requests.
func (m *mux[C]) Get(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodGet, pattern, h)
}

// Post registers a handler for POST requests.
func (m *mux[C]) Post(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPost, pattern, h)
}

// Put registers a handler for PUT requests.
func (m *mux[C]) Put(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPut, pattern, h)
}

// Patch registers a handler for PATCH requests.
func (m *mux[C]) Patch(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPatch, pattern, h)
}

// Delete registers a handler for DELETE requests.
func (m *mux[C]) Delete(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodDelete, pattern, h)
}

// Handle registers a handler for all HTTP methods.
func (m *mux[C]) Handle(pattern string, h handler.HandlerFunc[C]) {
	m.handle("", pattern, h)
}

// Method registers a handler for one or more specific HTTP methods.
func (m *mux[C]) Method(pattern string, h handler.HandlerFunc[C], methods ...string) {
	if len(methods) == 0 {
		panic(fmt.Errorf("%w: no methods provided", ErrInvalidMethod))
	}

	seen := make(map[string]bool, len(methods))
	for _, method := range methods {
		method = strings.ToUpper(method)
		if !validMethods[method] {
			panic(fmt.Errorf("%w: %s", ErrInvalidMethod, method))
		}
		if seen[method] {
			continue
		}
		seen[method] = true
		m.handle(method, pattern, h)
	}
}

// Use appends middleware to the router. It panics once routes are registered.
func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	if m.hasRoutes {
		panic("router: all middlewares must be defined before routes on a mux")
	}
	m.middlewares = append(m.middlewares, middlewares...)
}

// Group creates an inline router that shares the parent's routes and
// inherits its middlewares. Middlewares added inside the group stay there.
func (m *mux[C]) Group(fn func(r Router[C])) Router[C] {
	g := m.derive(m.r, m.prefix)
	if fn != nil {
		fn(g)
	}
	return g
}

// Route creates a sub-router for all paths under prefix.
func (m *mux[C]) Route(prefix string, fn func(r Router[C])) Router[C] {
	if fn == nil {
		panic(fmt.Errorf("%w on '%s'", ErrNilSubrouter, prefix))
	}
	if prefix == "" || prefix[0] != '/' {
		panic(fmt.Errorf("%w: '%s'", ErrInvalidPattern, prefix))
	}
	prefix = strings.TrimSuffix(prefix, "/")

	sub := m.derive(m.r.PathPrefix(prefix).Subrouter(), m.prefix+prefix)
	fn(sub)
	return sub
}

// Routes returns all registered routes in registration order.
func (m *mux[C]) Routes() []Route {
	return slices.Clone(*m.routes)
}

func (m *mux[C]) derive(r *gmux.Router, prefix string) *mux[C] {
	return &mux[C]{
		r:            r,
		middlewares:  slices.Clone(m.middlewares),
		errorHandler: m.errorHandler,
		newContext:   m.newContext,
		logger:       m.logger,
		routes:       m.routes,
		prefix:       prefix,
	}
}

// handle registers fn for method (all methods when empty) and pattern.
func (m *mux[C]) handle(method, pattern string, fn handler.HandlerFunc[C]) {
	if len(pattern) == 0 || pattern[0] != '/' {
		panic(fmt.Errorf("%w: '%s'", ErrInvalidPattern, pattern))
	}
	if fn == nil {
		panic(fmt.Errorf("%w: nil handler for '%s'", ErrInvalidPattern, pattern))
	}
	m.hasRoutes = true

	h := fn
	if len(m.middlewares) > 0 {
		h = chain(m.middlewares, fn)
	}

	route := m.r.Path(pattern).Handler(m.serve(h))
	if method != "" {
		route.Methods(method)
	}
	*m.routes = append(*m.routes, Route{Method: method, Pattern: m.prefix + pattern})
}

// serve adapts a handler to http.Handler: it builds the context, renders the
// response and routes errors and panics to the error handler.
func (m *mux[C]) serve(h handler.HandlerFunc[C]) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := newResponseWriter(w)
		ctx := m.newContext(ww, r, gmux.Vars(r))

		defer func() {
			if p := recover(); p != nil {
				panicErr := &panicError{
					value: p,
					stack: debug.Stack(),
				}

				if ww.Written() {
					m.logger.Error("panic after response written",
						"value", panicErr.value,
						"stack", string(panicErr.stack),
						"path", r.URL.Path,
						"method", r.Method,
						"status", ww.Status(),
					)
					return
				}
				m.errorHandler(ctx, panicErr)
			}
		}()

		response := h(ctx)
		if response == nil {
			m.errorHandler(ctx, ErrNilResponse)
			return
		}

		if err := response(ww, ctx.Request()); err != nil {
			m.errorHandler(ctx, err)
		}
	})
}

// fail returns a handler that reports err through the error handler.
func (m *mux[C]) fail(err error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := newResponseWriter(w)
		m.errorHandler(m.newContext(ww, r, nil), err)
	})
}

var validMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
}

// chain wraps fn with middlewares so that the first one runs outermost.
func chain[C handler.Context](middlewares []handler.Middleware[C], fn handler.HandlerFunc[C]) handler.HandlerFunc[C] {
	for i := len(middlewares) - 1; i >= 0; i-- {
		fn = middlewares[i](fn)
	}
	return fn
}
