package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/ssrkit/core/handler"
)

type requestIDContextKey struct{}

// maxIncomingIDLength bounds request IDs accepted from clients.
const maxIncomingIDLength = 128

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	// Skip bypasses the stage for matching requests
	Skip func(ctx handler.Context) bool
	// Generator mints an ID for every request (default: UUID v4)
	Generator func() string
	// HeaderName is the response header carrying the ID (default: "X-Request-ID")
	HeaderName string
	// UseExisting adopts a well-formed ID sent by the client in HeaderName
	UseExisting bool
}

// RequestID tags every request with a fresh UUID, stored in the request
// context and echoed in X-Request-ID.
func RequestID[C handler.Context]() handler.Middleware[C] {
	return RequestIDWithConfig[C](RequestIDConfig{})
}

// RequestIDWithConfig creates a request ID middleware with custom configuration.
// The header is set before the inner response runs, so it survives an error
// page replacing the body.
func RequestIDWithConfig[C handler.Context](cfg RequestIDConfig) handler.Middleware[C] {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Request-ID"
	}
	if cfg.Generator == nil {
		cfg.Generator = uuid.NewString
	}

	assign := func(r *http.Request) string {
		if cfg.UseExisting {
			if id := r.Header.Get(cfg.HeaderName); validIncomingID(id) {
				return id
			}
		}
		return cfg.Generator()
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			id := assign(ctx.Request())
			ctx.SetValue(requestIDContextKey{}, id)
			inner := orNilResponse(next(ctx))

			return func(w http.ResponseWriter, r *http.Request) error {
				w.Header().Set(cfg.HeaderName, id)
				return inner(w, r)
			}
		}
	}
}

// GetRequestID returns the ID assigned to the request carrying ctx.
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey{}).(string)
	return id, ok
}

// validIncomingID accepts non-empty visible ASCII up to maxIncomingIDLength.
func validIncomingID(id string) bool {
	if id == "" || len(id) > maxIncomingIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}
	return true
}
