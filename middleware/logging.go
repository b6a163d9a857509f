package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/ssrkit/core/handler"
	"github.com/dmitrymomot/ssrkit/core/logger"
	"github.com/dmitrymomot/ssrkit/core/metrics"
	"github.com/dmitrymomot/ssrkit/core/response"
)

// LoggingConfig configures the access log middleware.
type LoggingConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool

	// Logger is the slog logger to use (default: slog.Default())
	Logger *slog.Logger

	// Metrics receives one request observation per logged request (default: no-op)
	Metrics metrics.Recorder

	// ResponseTimeHeader is read after the response ran (default: "X-Response-Time")
	ResponseTimeHeader string

	// Component name for structured logging (default: "http")
	Component string
}

// AccessLog creates an access log middleware with default configuration.
func AccessLog[C handler.Context]() handler.Middleware[C] {
	return AccessLogWithConfig[C](LoggingConfig{})
}

// AccessLogWithLogger creates an access log middleware with a custom logger.
func AccessLogWithLogger[C handler.Context](log *slog.Logger) handler.Middleware[C] {
	return AccessLogWithConfig[C](LoggingConfig{Logger: log})
}

// AccessLogWithConfig creates an access log middleware with custom configuration.
//
// It writes exactly one line per request after the inner response ran, with
// the status, method, path, and the response time stamped by the
// ResponseTime stage. When the inner response failed, the logged status is
// the one the error boundary will render. Level is info, warn for 4xx, and
// error for 5xx.
func AccessLogWithConfig[C handler.Context](cfg LoggingConfig) handler.Middleware[C] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	cfg.Metrics = metrics.OrNoop(cfg.Metrics)
	if cfg.ResponseTimeHeader == "" {
		cfg.ResponseTimeHeader = "X-Response-Time"
	}
	if cfg.Component == "" {
		cfg.Component = "http"
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			start := time.Now()
			resp := orNilResponse(next(ctx))

			return func(w http.ResponseWriter, r *http.Request) error {
				err := resp(w, r)

				status := writtenStatus(w)
				if err != nil && !hijacked(w) {
					status = response.Classify(err).Status
				}

				requestID, _ := GetRequestID(r.Context())

				level := slog.LevelInfo
				switch {
				case status >= http.StatusInternalServerError:
					level = slog.LevelError
				case status >= http.StatusBadRequest:
					level = slog.LevelWarn
				}

				cfg.Logger.LogAttrs(r.Context(), level, "request",
					logger.Component(cfg.Component),
					logger.StatusCode(status),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.ResponseTime(w.Header().Get(cfg.ResponseTimeHeader)),
					logger.RequestID(requestID),
				)
				cfg.Metrics.ObserveRequest(r.Method, status, time.Since(start))

				return err
			}
		}
	}
}
