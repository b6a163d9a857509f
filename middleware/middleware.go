package middleware

import (
	"net/http"

	"github.com/dmitrymomot/ssrkit/core/handler"
	"github.com/dmitrymomot/ssrkit/core/router"
)

// orNilResponse guards against inner stages returning a nil response.
func orNilResponse(resp handler.Response) handler.Response {
	if resp != nil {
		return resp
	}
	return func(http.ResponseWriter, *http.Request) error {
		return router.ErrNilResponse
	}
}

// hijacked reports whether the connection behind w was taken over.
func hijacked(w http.ResponseWriter) bool {
	rw, ok := w.(router.ResponseWriter)
	return ok && rw.Hijacked()
}

// writtenStatus returns the status the buffered writer will send.
func writtenStatus(w http.ResponseWriter) int {
	if rw, ok := w.(router.ResponseWriter); ok {
		return rw.Status()
	}
	return http.StatusOK
}
