package router

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/dmitrymomot/ssrkit/core/handler"
)

// mAny marks a route that answers every method.
const mAny = "*"

var methodMap = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodHead:    {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodPatch:   {},
	http.MethodDelete:  {},
	http.MethodConnect: {},
	http.MethodOptions: {},
	http.MethodTrace:   {},
}

type route[C handler.Context] struct {
	method  string
	pattern string
	handler handler.HandlerFunc[C]
}

// mux is the private implementation of Router interface.
type mux[C handler.Context] struct {
	routes       []route[C]
	middlewares  []handler.Middleware[C]
	fallback     handler.HandlerFunc[C]
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request) C
	logger       *slog.Logger
	serving      atomic.Bool
}

// newMux creates a new router instance.
func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	m := &mux[C]{
		errorHandler: defaultErrorHandler[C],
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)), // No-op logger by default
	}
	m.fallback = m.notFound

	for _, opt := range opts {
		opt(m)
	}

	if m.newContext == nil {
		m.newContext = func(w http.ResponseWriter, r *http.Request) C {
			// Only the default *Context works without a factory.
			var zero C
			if _, ok := any(zero).(*Context); ok {
				return any(NewContext(w, r)).(C)
			}
			panic(ErrNoContextFactory)
		}
	}

	return m
}

// ServeHTTP implements http.Handler interface.
func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.serving.Store(true)

	ww := newResponseWriter(w)
	ctx := m.newContext(ww, r)

	defer func() {
		// Last resort for panics raised by middleware itself. Handler panics
		// are converted to errors in dispatch and never get here.
		if p := recover(); p != nil {
			perr := NewPanicError(p)
			m.logger.Error("panic escaped middleware chain",
				slog.Any("value", perr.Value()),
				slog.String("stack", string(perr.Stack())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			m.fail(ctx, ww, perr)
		}
		if err := ww.flush(); err != nil {
			m.logger.Debug("response write failed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("error", err.Error()),
			)
		}
	}()

	resp := handler.Chain(m.middlewares, m.dispatch)(ctx)
	if resp == nil {
		m.fail(ctx, ww, ErrNilResponse)
		return
	}

	// The request may carry values set by middleware during the handler phase.
	if err := resp(ww, ctx.Request()); err != nil {
		m.fail(ctx, ww, err)
	}
}

// fail renders err through the error handler, replacing any partial response.
func (m *mux[C]) fail(ctx C, ww *responseWriter, err error) {
	if ww.Hijacked() {
		m.logger.Debug("error after connection hijack", slog.String("error", err.Error()))
		return
	}
	ww.Reset()
	m.errorHandler(ctx, err)
}

// dispatch selects the route for the request and guards the selected
// handler so that panics in either phase surface as PanicError values.
func (m *mux[C]) dispatch(ctx C) (resp handler.Response) {
	defer func() {
		if p := recover(); p != nil {
			resp = errorResponse(NewPanicError(p))
		}
	}()

	r := ctx.Request()
	path := r.URL.Path
	if path == "" {
		path = "/"
	}

	if m.logger.Enabled(r.Context(), slog.LevelDebug) {
		m.logger.Debug(">>> "+path, slog.String("method", r.Method))
	}

	h, allowed := m.match(r.Method, path)
	if h == nil {
		return methodNotAllowed(allowed)
	}

	return guard(h(ctx))
}

// match returns the first route registered for method and path.
// When the path is known but the method is not, it returns the allowed methods.
// When the path is unknown, it returns the fallback handler.
func (m *mux[C]) match(method, path string) (handler.HandlerFunc[C], []string) {
	var allowed []string
	for _, rt := range m.routes {
		if rt.pattern != path {
			continue
		}
		if rt.method == mAny || rt.method == method || (rt.method == http.MethodGet && method == http.MethodHead) {
			return rt.handler, nil
		}
		allowed = appendMethod(allowed, rt.method)
		if rt.method == http.MethodGet {
			allowed = appendMethod(allowed, http.MethodHead)
		}
	}
	if len(allowed) > 0 {
		return nil, allowed
	}
	return m.fallback, nil
}

func (m *mux[C]) notFound(C) handler.Response {
	return errorResponse(ErrNotFound)
}

// guard converts a nil response or a panic during the response phase into an error.
func guard(resp handler.Response) handler.Response {
	if resp == nil {
		return errorResponse(ErrNilResponse)
	}
	return func(w http.ResponseWriter, r *http.Request) (err error) {
		defer func() {
			if p := recover(); p != nil {
				err = NewPanicError(p)
			}
		}()
		return resp(w, r)
	}
}

func errorResponse(err error) handler.Response {
	return func(http.ResponseWriter, *http.Request) error {
		return err
	}
}

func methodNotAllowed(allowed []string) handler.Response {
	return func(w http.ResponseWriter, _ *http.Request) error {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
		return ErrMethodNotAllowed
	}
}

func appendMethod(methods []string, method string) []string {
	for _, m := range methods {
		if m == method {
			return methods
		}
	}
	return append(methods, method)
}

// Use appends middleware to the router. The first middleware is the outermost.
func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	if m.serving.Load() {
		panic("router: all middlewares must be defined before serving requests")
	}
	m.middlewares = append(m.middlewares, middlewares...)
}

// Fallback sets the handler for requests that match no route.
func (m *mux[C]) Fallback(h handler.HandlerFunc[C]) {
	if h == nil {
		panic(ErrNilHandler)
	}
	m.fallback = h
}

// Get registers a handler for GET and HEAD requests.
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

// Delete registers a handler for DELETE requests.
func (m *mux[C]) Delete(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodDelete, pattern, h)
}

// Handle registers a handler for all HTTP methods.
func (m *mux[C]) Handle(pattern string, h handler.HandlerFunc[C]) {
	m.handle(mAny, pattern, h)
}

// Method registers a handler for the given HTTP methods.
func (m *mux[C]) Method(pattern string, h handler.HandlerFunc[C], methods ...string) {
	for _, method := range methods {
		method = strings.ToUpper(method)
		if _, ok := methodMap[method]; !ok {
			panic(ErrInvalidMethod)
		}
		m.handle(method, pattern, h)
	}
}

// Routes returns the registered routes in match order.
func (m *mux[C]) Routes() []Route {
	routes := make([]Route, 0, len(m.routes))
	for _, rt := range m.routes {
		routes = append(routes, Route{Method: rt.method, Pattern: rt.pattern})
	}
	return routes
}

func (m *mux[C]) handle(method, pattern string, h handler.HandlerFunc[C]) {
	if len(pattern) == 0 || pattern[0] != '/' {
		panic(ErrInvalidPattern)
	}
	if h == nil {
		panic(ErrNilHandler)
	}
	if m.serving.Load() {
		panic("router: routes must be registered before serving requests")
	}
	m.routes = append(m.routes, route[C]{method: method, pattern: pattern, handler: h})
}
