package middleware_test

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/ssrkit/core/handler"
	"github.com/dmitrymomot/ssrkit/core/router"
	"github.com/dmitrymomot/ssrkit/core/timing"
	"github.com/dmitrymomot/ssrkit/middleware"
)

func newPipeline(log *slog.Logger) router.Router[*router.Context] {
	r := router.New[*router.Context]()
	r.Use(
		middleware.ErrorBoundaryWithLogger[*router.Context](log),
		middleware.RequestIDWithConfig[*router.Context](middleware.RequestIDConfig{
			Generator: func() string { return "req-7" },
		}),
		middleware.AccessLogWithLogger[*router.Context](log),
		middleware.ResponseTime[*router.Context](),
		middleware.ServerTiming[*router.Context](),
	)
	return r
}

func TestPipeline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		path   string
		status int
		body   string
		timing string
	}{
		{
			name:   "matched route",
			path:   "/",
			status: http.StatusOK,
			body:   "home",
			timing: `^render;dur=\d+$`,
		},
		{
			name:   "fallback",
			path:   "/missing-asset.png",
			status: http.StatusNotFound,
			body:   fmtDoc("404 - Not Found"),
		},
		{
			name:   "runtime fault",
			path:   "/broken",
			status: http.StatusInternalServerError,
			body:   fmtDoc("500 - Internal Server Error"),
			timing: `^render;dur=\d+$`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logHandler := &testLogHandler{}
			r := newPipeline(slog.New(logHandler))
			r.Get("/", func(ctx *router.Context) handler.Response {
				return func(w http.ResponseWriter, r *http.Request) error {
					return timing.FromContext(r.Context()).Span("render", func() error {
						_, err := w.Write([]byte("home"))
						return err
					})
				}
			})
			r.Get("/broken", func(ctx *router.Context) handler.Response {
				return func(w http.ResponseWriter, r *http.Request) error {
					return timing.FromContext(r.Context()).Span("render", func() error {
						_, _ = w.Write([]byte("<html><body>half a pa"))
						return errors.New("template exploded")
					})
				}
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
			assert.Equal(t, "req-7", w.Header().Get("X-Request-ID"))
			assert.Regexp(t, `^\d+ms$`, w.Header().Get("X-Response-Time"))
			if tt.timing != "" {
				assert.Regexp(t, tt.timing, w.Header().Get("Server-Timing"))
			}

			var access []map[string]any
			for _, e := range logHandler.Entries() {
				if e["msg"] == "request" {
					access = append(access, e)
				}
			}
			require.Len(t, access, 1, "one access line per request")
			assert.Equal(t, int64(tt.status), access[0]["status"])
			assert.Equal(t, "req-7", access[0]["request_id"])
			assert.Equal(t, w.Header().Get("X-Response-Time"), access[0]["response_time"])
		})
	}
}

func TestPipelineKeepsServing(t *testing.T) {
	t.Parallel()

	r := newPipeline(slog.New(&testLogHandler{}))
	r.Get("/", func(*router.Context) handler.Response { panic("first request only") })
	r.Get("/ok", func(*router.Context) handler.Response { return ok200 })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)

		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
