// Package middleware provides the request pipeline stages of the server:
// error boundary, request ID, access log, response time, and server timing.
//
// All middleware functions follow a consistent pattern:
//   - Generic functions that accept a handler.Context type parameter
//   - Configuration structs for customization
//   - Default constructors for common use cases
//   - WithConfig constructors for advanced configuration
//   - Context helpers for retrieving stored values
//
// Stages do their "after" work by wrapping the handler.Response returned by
// the next stage. They rely on the router's buffered writer, so headers set
// after the inner response ran still reach the client.
//
// # Pipeline
//
// The stages are meant to be installed in this order, outermost first:
//
//	r.Use(
//		middleware.ErrorBoundaryWithConfig[*router.Context](middleware.ErrorBoundaryConfig{Logger: log}),
//		middleware.RequestID[*router.Context](),
//		middleware.AccessLogWithLogger[*router.Context](log),
//		middleware.ResponseTime[*router.Context](),
//		middleware.ServerTiming[*router.Context](),
//	)
//
// # Error Boundary
//
// ErrorBoundary catches every error and panic from the inner stages, classifies
// it with response.Classify, logs it, and renders response.ErrorPage in place of
// the partial response. Runtime faults (unclassified errors and panics) render as
// 500 with the generic reason phrase; the message and stack are only logged.
//
// # Request ID
//
//	if id, ok := middleware.GetRequestID(ctx); ok {
//		log.Info("processing", logger.RequestID(id))
//	}
//
// # Access Log
//
// AccessLog writes one line per request with status, method, path, response time,
// and request ID. Failed requests are logged with the status the error boundary
// renders.
//
// # Response Time and Server Timing
//
// ResponseTime stamps X-Response-Time: <n>ms. ServerTiming attaches a
// timing.Recorder to the request; handlers open spans on it and the stage
// serializes them into the Server-Timing header:
//
//	rec := timing.FromContext(ctx)
//	err := rec.Span("render", func() error { return render() })
package middleware
