package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/ssrkit/core/handler"
	"github.com/dmitrymomot/ssrkit/core/router"
)

func TestResponseWriterStatusTracking(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()

	r.Get("/test", func(ctx *router.Context) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusCreated)
			w.WriteHeader(http.StatusAccepted)
			w.Write([]byte("created"))
			return nil
		}
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "created", w.Body.String())
	assert.Equal(t, "7", w.Header().Get("Content-Length"))
}

func TestResponseWriterDefaultStatus(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/write", text("default status"))
	r.Get("/empty", func(ctx *router.Context) handler.Response {
		return func(http.ResponseWriter, *http.Request) error { return nil }
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/write", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "default status", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/empty", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestResponseWriterHeadersAfterBody(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
		return func(ctx *router.Context) handler.Response {
			resp := next(ctx)
			return func(w http.ResponseWriter, req *http.Request) error {
				err := resp(w, req)
				rw, ok := w.(router.ResponseWriter)
				require.True(t, ok)
				assert.True(t, rw.Written())
				assert.Equal(t, http.StatusTeapot, rw.Status())
				w.Header().Set("X-After", "set")
				return err
			}
		}
	})
	r.Get("/", func(ctx *router.Context) handler.Response {
		return func(w http.ResponseWriter, _ *http.Request) error {
			w.WriteHeader(http.StatusTeapot)
			_, err := w.Write([]byte("body"))
			return err
		}
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "set", w.Header().Get("X-After"))
	assert.Equal(t, "body", w.Body.String())
}

func TestResponseWriterReset(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
		return func(ctx *router.Context) handler.Response {
			resp := next(ctx)
			return func(w http.ResponseWriter, req *http.Request) error {
				w.Header().Set("X-Request-ID", "abc")
				_ = resp(w, req)
				w.(router.ResponseWriter).Reset()
				w.WriteHeader(http.StatusServiceUnavailable)
				_, err := w.Write([]byte("replaced"))
				return err
			}
		}
	})
	r.Get("/", func(ctx *router.Context) handler.Response {
		return func(w http.ResponseWriter, _ *http.Request) error {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Etag", `"v1"`)
			_, err := w.Write([]byte(`{"partial":`))
			return err
		}
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "replaced", w.Body.String())
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
	assert.Empty(t, w.Header().Get("Etag"))
	assert.NotEqual(t, "application/json", w.Header().Get("Content-Type"))
}

func TestResponseWriterHijack(t *testing.T) {
	t.Parallel()

	observed := make(chan [2]any, 1)

	r := router.New[*router.Context]()
	r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
		return func(ctx *router.Context) handler.Response {
			resp := next(ctx)
			return func(w http.ResponseWriter, req *http.Request) error {
				err := resp(w, req)
				rw := w.(router.ResponseWriter)
				observed <- [2]any{rw.Status(), rw.Hijacked()}
				return err
			}
		}
	})

	upgrader := websocket.Upgrader{}
	r.Get("/ws", func(ctx *router.Context) handler.Response {
		return func(w http.ResponseWriter, req *http.Request) error {
			conn, err := upgrader.Upgrade(w, req, nil)
			if err != nil {
				return err
			}
			return conn.Close()
		}
	})

	server := httptest.NewServer(r)
	defer server.Close()

	conn, resp, err := websocket.DefaultDialer.Dial("ws"+server.URL[len("http"):]+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	select {
	case got := <-observed:
		assert.Equal(t, http.StatusSwitchingProtocols, got[0])
		assert.Equal(t, true, got[1])
	case <-time.After(time.Second):
		t.Fatal("middleware did not observe the hijacked response")
	}
}

func TestResponseWriterHijackUnsupported(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/", func(ctx *router.Context) handler.Response {
		return func(w http.ResponseWriter, _ *http.Request) error {
			_, _, err := w.(http.Hijacker).Hijack()
			return err
		}
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
