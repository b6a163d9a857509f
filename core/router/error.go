package router

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/dmitrymomot/ssrkit/core/handler"
)

var (
	ErrNoContextFactory = errors.New("no context factory provided")
	ErrNilResponse      = errors.New("nil response")
	ErrInvalidPattern   = errors.New("invalid route path pattern")
	ErrInvalidMethod    = errors.New("invalid http method")
	ErrNilHandler       = errors.New("nil handler")

	ErrNotFound         error = &statusError{msg: "not found", status: http.StatusNotFound}
	ErrMethodNotAllowed error = &statusError{msg: "method not allowed", status: http.StatusMethodNotAllowed}
)

// statusError is a routing failure that carries its HTTP status.
type statusError struct {
	msg    string
	status int
}

func (e *statusError) Error() string   { return e.msg }
func (e *statusError) StatusCode() int { return e.status }

// statusCode is an unexported interface that errors can implement
// to provide a custom HTTP status code.
type statusCode interface {
	StatusCode() int
}

// defaultErrorHandler writes the reason phrase for the error status.
// The error text is never sent to the client.
func defaultErrorHandler[C handler.Context](ctx C, err error) {
	w := ctx.ResponseWriter()

	if ww, ok := w.(*responseWriter); ok && ww.Hijacked() {
		return
	}

	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) && http.StatusText(sc.StatusCode()) != "" {
		status = sc.StatusCode()
	}

	http.Error(w, http.StatusText(status), status)
}

// PanicError interface allows external error handlers to detect and handle panics.
// When a panic is recovered by the router, it's wrapped in an error that implements
// this interface, providing access to the original panic value and stack trace.
type PanicError interface {
	error
	// Value returns the original panic value.
	Value() any
	// Stack returns the stack trace captured at the panic point.
	Stack() []byte
}

// panicError is the private implementation of PanicError interface.
type panicError struct {
	value any
	stack []byte
}

// NewPanicError wraps a recovered panic value with the current stack trace.
// Call it from the deferred function that recovered the panic.
func NewPanicError(value any) PanicError {
	return &panicError{value: value, stack: debug.Stack()}
}

// Error implements the error interface.
func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

// Value returns the original panic value.
func (e *panicError) Value() any {
	return e.value
}

// Stack returns the stack trace.
func (e *panicError) Stack() []byte {
	return e.stack
}

// Unwrap allows errors.Is/As to work with wrapped panics.
func (e *panicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}
