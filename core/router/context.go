package router

import (
	"context"
	"net/http"
	"time"
)

// Context is the default per-request context. It delegates cancellation and
// values to the request's context, and SetValue replaces the request so later
// stages (and the response phase) observe the value.
type Context struct {
	w http.ResponseWriter
	r *http.Request
}

// Deadline returns the time when work done on behalf of this context should be canceled.
func (c *Context) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

// Done returns a channel that's closed when work done on behalf of this context should be canceled.
func (c *Context) Done() <-chan struct{} {
	return c.r.Context().Done()
}

// Err returns a non-nil error value after Done is closed.
func (c *Context) Err() error {
	return c.r.Context().Err()
}

// Value returns the value associated with this context for key, or nil if no value is associated with key.
func (c *Context) Value(key any) any {
	return c.r.Context().Value(key)
}

// SetValue stores a value in the request's context.
func (c *Context) SetValue(key, val any) {
	c.r = c.r.WithContext(context.WithValue(c.r.Context(), key, val))
}

// Request returns the HTTP request associated with this context.
func (c *Context) Request() *http.Request {
	return c.r
}

// ResponseWriter returns the buffered response writer for this request.
func (c *Context) ResponseWriter() http.ResponseWriter {
	return c.w
}

// NewContext creates a Context for the given writer and request.
// It is exported for context factories that embed *Context.
func NewContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{w: w, r: r}
}
