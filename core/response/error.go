package response

import (
	"net/http"

	"github.com/dmitrymomot/ssrkit/core/handler"
)

// Error returns a handler response that propagates the given error.
// The error travels up the middleware chain to the error boundary.
func Error(err error) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		return err
	}
}
