package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrymomot/ssrkit/core/handler"
)

// ResponseTimeConfig configures the response time middleware.
type ResponseTimeConfig struct {
	// HeaderName is the header to stamp (default: "X-Response-Time")
	HeaderName string
	// Now returns the current time (default: time.Now)
	Now func() time.Time
}

// ResponseTime creates a response time middleware with default configuration.
func ResponseTime[C handler.Context]() handler.Middleware[C] {
	return ResponseTimeWithConfig[C](ResponseTimeConfig{})
}

// ResponseTimeWithConfig creates a middleware that measures the inner stages,
// from before the handler phase to the end of the response phase, and sets
// the header to "<n>ms" in whole milliseconds. The header is set even when
// the inner response failed, and skipped when the connection was hijacked.
func ResponseTimeWithConfig[C handler.Context](cfg ResponseTimeConfig) handler.Middleware[C] {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Response-Time"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			start := cfg.Now()
			response := orNilResponse(next(ctx))

			return func(w http.ResponseWriter, r *http.Request) error {
				err := response(w, r)
				if !hijacked(w) {
					ms := cfg.Now().Sub(start).Milliseconds()
					w.Header().Set(cfg.HeaderName, strconv.FormatInt(ms, 10)+"ms")
				}
				return err
			}
		}
	}
}
