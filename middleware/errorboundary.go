package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/dmitrymomot/ssrkit/core/handler"
	"github.com/dmitrymomot/ssrkit/core/logger"
	"github.com/dmitrymomot/ssrkit/core/metrics"
	"github.com/dmitrymomot/ssrkit/core/response"
	"github.com/dmitrymomot/ssrkit/core/router"
)

// ErrorBoundaryConfig configures the error boundary middleware.
type ErrorBoundaryConfig struct {
	// Logger receives diagnostics for failed requests (default: discard)
	Logger *slog.Logger
	// Metrics counts rendered faults by kind (default: no-op)
	Metrics metrics.Recorder
	// Render builds the error page for a classified fault (default: response.ErrorPage)
	Render func(fault response.HTTPError) handler.Response
}

// ErrorBoundary creates the outermost pipeline stage with default configuration.
func ErrorBoundary[C handler.Context]() handler.Middleware[C] {
	return ErrorBoundaryWithConfig[C](ErrorBoundaryConfig{})
}

// ErrorBoundaryWithLogger creates an error boundary that logs to log.
func ErrorBoundaryWithLogger[C handler.Context](log *slog.Logger) handler.Middleware[C] {
	return ErrorBoundaryWithConfig[C](ErrorBoundaryConfig{Logger: log})
}

// ErrorBoundaryWithConfig creates an error boundary with custom configuration.
//
// Every failure of the inner stages, whether returned as an error or raised
// as a panic in either phase, is classified with response.Classify and
// rendered as an error page in place of any partial response. Pipeline
// headers set by inner stages are kept. The boundary never returns an error.
func ErrorBoundaryWithConfig[C handler.Context](cfg ErrorBoundaryConfig) handler.Middleware[C] {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cfg.Metrics = metrics.OrNoop(cfg.Metrics)
	if cfg.Render == nil {
		cfg.Render = response.ErrorPage
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			inner := callHandler(next, ctx)

			return func(w http.ResponseWriter, r *http.Request) error {
				err := callResponse(inner, w, r)
				if err == nil {
					return nil
				}

				fault := response.Classify(err)
				requestID, _ := GetRequestID(r.Context())
				logFault(cfg.Logger, r, requestID, fault, err)

				if hijacked(w) {
					return nil
				}

				cfg.Metrics.IncFault(fault.Kind.String())

				if rw, ok := w.(router.ResponseWriter); ok {
					rw.Reset()
				}
				if renderErr := callResponse(cfg.Render(fault), w, r); renderErr != nil {
					cfg.Logger.ErrorContext(r.Context(), "error page render failed",
						logger.Component("error_boundary"),
						logger.RequestID(requestID),
						logger.Error(renderErr),
					)
					if rw, ok := w.(router.ResponseWriter); ok {
						rw.Reset()
					}
					http.Error(w, fault.Reason(), fault.Status)
				}
				return nil
			}
		}
	}
}

// callHandler runs the handler phase, turning a panic into a response that fails.
func callHandler[C handler.Context](next handler.HandlerFunc[C], ctx C) (resp handler.Response) {
	defer func() {
		if p := recover(); p != nil {
			perr := router.NewPanicError(p)
			resp = func(http.ResponseWriter, *http.Request) error { return perr }
		}
	}()
	return orNilResponse(next(ctx))
}

// callResponse runs the response phase, turning a panic into an error.
func callResponse(resp handler.Response, w http.ResponseWriter, r *http.Request) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = router.NewPanicError(p)
		}
	}()
	if resp == nil {
		return router.ErrNilResponse
	}
	return resp(w, r)
}

func logFault(log *slog.Logger, r *http.Request, requestID string, fault response.HTTPError, err error) {
	attrs := []slog.Attr{
		logger.Component("error_boundary"),
		logger.Method(r.Method),
		logger.Path(r.URL.Path),
		logger.StatusCode(fault.Status),
		logger.Kind(fault.Kind.String()),
		logger.RequestID(requestID),
		logger.Error(err),
	}

	var perr router.PanicError
	switch {
	case errors.As(err, &perr):
		attrs = append(attrs, logger.Stack(perr.Stack()))
	case fault.Kind == response.KindRuntime:
		attrs = append(attrs, logger.Stack(debug.Stack()))
	}

	switch {
	case fault.Kind == response.KindRuntime:
		log.LogAttrs(r.Context(), slog.LevelError, "unhandled error", attrs...)
	case fault.Status >= http.StatusInternalServerError:
		log.LogAttrs(r.Context(), slog.LevelError, "request failed", attrs...)
	default:
		log.LogAttrs(r.Context(), slog.LevelDebug, "request rejected", attrs...)
	}
}
