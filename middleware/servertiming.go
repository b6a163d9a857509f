package middleware

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/ssrkit/core/handler"
	"github.com/dmitrymomot/ssrkit/core/logger"
	"github.com/dmitrymomot/ssrkit/core/metrics"
	"github.com/dmitrymomot/ssrkit/core/timing"
)

// ServerTimingConfig configures the server timing middleware.
type ServerTimingConfig struct {
	// Logger receives timing defects such as unclosed spans (default: discard)
	Logger *slog.Logger
	// Metrics receives every completed span (default: no-op)
	Metrics metrics.Recorder
	// HeaderName is the header to merge into (default: "Server-Timing")
	HeaderName string
}

// ServerTiming creates a server timing middleware with default configuration.
func ServerTiming[C handler.Context]() handler.Middleware[C] {
	return ServerTimingWithConfig[C](ServerTimingConfig{})
}

// ServerTimingWithConfig creates a middleware that attaches a fresh
// timing.Recorder to every request. After the response ran, the completed
// spans are merged into the Server-Timing header and reported to metrics.
// Spans left open are logged at error level and left out of the header.
func ServerTimingWithConfig[C handler.Context](cfg ServerTimingConfig) handler.Middleware[C] {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cfg.Metrics = metrics.OrNoop(cfg.Metrics)
	if cfg.HeaderName == "" {
		cfg.HeaderName = "Server-Timing"
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			rec := timing.New(timing.WithLogger(cfg.Logger))
			timing.Attach(ctx, rec)

			response := orNilResponse(next(ctx))

			return func(w http.ResponseWriter, r *http.Request) error {
				err := response(w, r)

				header, timingErr := rec.Header()
				if timingErr != nil {
					requestID, _ := GetRequestID(r.Context())
					cfg.Logger.ErrorContext(r.Context(), "timing spans left open",
						logger.Component("server_timing"),
						logger.Path(r.URL.Path),
						logger.RequestID(requestID),
						logger.Error(timingErr),
					)
				}

				for _, e := range rec.Entries() {
					cfg.Metrics.ObserveSpan(e.Name, e.Duration)
				}

				if header != "" && !hijacked(w) {
					if existing := w.Header().Get(cfg.HeaderName); existing != "" {
						header = existing + ", " + header
					}
					w.Header().Set(cfg.HeaderName, header)
				}

				return err
			}
		}
	}
}
