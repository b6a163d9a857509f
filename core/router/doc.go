// Package router provides a small HTTP router with generic request contexts,
// ordered middleware, and a buffered response writer.
//
// # Routing
//
// Routes are matched against the exact request path in the order they were
// registered; the first route whose pattern and method match handles the
// request. Get routes also answer HEAD. A known path requested with a method
// that has no route yields ErrMethodNotAllowed with an Allow header listing
// the registered methods. Any other path goes to the fallback handler, which
// returns ErrNotFound unless replaced with Fallback or WithFallback.
//
//	r := router.New[*router.Context]()
//	r.Get("/", pageHandler)
//	r.Get("/_r", reloadHandler)
//	r.Fallback(staticHandler)
//
//	http.ListenAndServe(":8080", r)
//
// # Middleware
//
// Middleware wraps the route dispatch for every request, including requests
// served by the fallback. The first middleware passed to Use is the outermost
// stage:
//
//	r.Use(
//		middleware.ErrorBoundary[*router.Context](),
//		middleware.AccessLog[*router.Context](logger),
//		middleware.ResponseTime[*router.Context](),
//	)
//
// A middleware runs its "before" work when called and its "after" work by
// wrapping the handler.Response it returns, so the after work of the
// innermost stage runs first.
//
// # Buffered responses
//
// Handlers write into a buffer that is sent to the client once, after the
// whole pipeline has returned. Outer stages can therefore add headers after
// the body exists, and an error stage can discard a partial body with Reset.
// Middleware reaches these operations by asserting the writer to
// ResponseWriter. Hijacking the connection (for example to upgrade to a
// websocket) bypasses the buffer; the recorded status becomes 101.
//
// # Errors and panics
//
// An error returned from a Response is passed to the error handler after the
// buffered response has been reset. Panics raised by a route handler, in
// either phase, are converted into a PanicError carrying the stack trace, so
// middleware sees them as ordinary errors. The default error handler writes
// the reason phrase of the error's status code; the error text itself is
// never sent to the client.
package router
