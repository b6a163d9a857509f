package response

import (
	"net/http"

	"github.com/dmitrymomot/ssrkit/core/handler"
)

// Render executes the given response with the provided context.
// If the response returns an error, it writes a plain 500 Internal Server Error.
// It is the last-resort path used when no error boundary is installed.
func Render(ctx handler.Context, resp handler.Response) {
	if resp == nil {
		return
	}
	if err := resp(ctx.ResponseWriter(), ctx.Request()); err != nil {
		http.Error(ctx.ResponseWriter(), http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// String creates a text/plain response with 200 OK status.
func String(content string) handler.Response {
	return Bytes([]byte(content), "text/plain; charset=utf-8")
}

// HTML creates a text/html response with 200 OK status.
func HTML(content string) handler.Response {
	return Bytes([]byte(content), "text/html; charset=utf-8")
}

// HTMLWithStatus creates a text/html response with custom status code.
func HTMLWithStatus(content string, status int) handler.Response {
	return BytesWithStatus([]byte(content), "text/html; charset=utf-8", status)
}

// Bytes creates a response with custom content type and 200 OK status.
func Bytes(content []byte, contentType string) handler.Response {
	return BytesWithStatus(content, contentType, http.StatusOK)
}

// BytesWithStatus creates a response with custom content type and status code.
func BytesWithStatus(content []byte, contentType string, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		code := status
		if code == 0 {
			code = http.StatusOK
		}
		w.WriteHeader(code)
		if len(content) > 0 {
			_, err := w.Write(content)
			return err
		}
		return nil
	}
}

// Status creates an empty response with the specified status code.
func Status(code int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		status := code
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		return nil
	}
}
