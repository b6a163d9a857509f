package router

import (
	"bufio"
	"bytes"
	"errors"
	"net"
	"net/http"
	"strconv"
)

// ErrHijackUnsupported is returned by Hijack when the underlying writer
// cannot hand over its connection.
var ErrHijackUnsupported = errors.New("response writer does not support hijacking")

// ResponseWriter is the buffered writer the router hands to every stage.
// Middleware type-asserts to it to inspect or discard the pending response.
type ResponseWriter interface {
	http.ResponseWriter
	Status() int
	Written() bool
	Hijacked() bool
	Reset()
}

// representationHeaders describe the body being replaced on Reset.
// Headers set by the pipeline (request id, timing) are kept.
var representationHeaders = []string{
	"Content-Type",
	"Content-Length",
	"Content-Encoding",
	"Content-Language",
	"Content-Range",
	"Content-Disposition",
	"Accept-Ranges",
	"Etag",
	"Last-Modified",
}

// responseWriter buffers status, headers, and body until the whole pipeline
// has finished, so outer stages can still add headers or discard a partial
// response. It is written to the connection exactly once by flush.
type responseWriter struct {
	rw       http.ResponseWriter
	header   http.Header
	body     bytes.Buffer
	status   int
	written  bool
	hijacked bool
	flushed  bool
}

// newResponseWriter creates a new buffered writer in front of w.
func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		rw:     w,
		header: make(http.Header),
	}
}

func (w *responseWriter) Header() http.Header {
	return w.header
}

func (w *responseWriter) WriteHeader(status int) {
	if w.written || w.hijacked {
		return
	}
	w.status = status
	w.written = true
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if w.hijacked {
		return 0, http.ErrHijacked
	}
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	return w.body.Write(b)
}

// Written returns true if WriteHeader has been called
func (w *responseWriter) Written() bool {
	return w.written
}

// Status returns the status that will be sent, 200 if none was set.
func (w *responseWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// Hijacked reports whether the connection was taken over.
func (w *responseWriter) Hijacked() bool {
	return w.hijacked
}

// Reset discards the buffered body, status, and representation headers.
func (w *responseWriter) Reset() {
	if w.hijacked {
		return
	}
	w.body.Reset()
	w.status = 0
	w.written = false
	for _, h := range representationHeaders {
		w.header.Del(h)
	}
}

// Hijack hands the connection over to the caller. The buffered response is
// dropped and the status is recorded as 101 Switching Protocols.
func (w *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.rw.(http.Hijacker)
	if !ok {
		return nil, nil, ErrHijackUnsupported
	}
	conn, brw, err := hj.Hijack()
	if err != nil {
		return nil, nil, err
	}
	w.hijacked = true
	w.written = true
	w.status = http.StatusSwitchingProtocols
	w.body.Reset()
	return conn, brw, nil
}

// flush writes the buffered response to the underlying writer once.
func (w *responseWriter) flush() error {
	if w.hijacked || w.flushed {
		return nil
	}
	w.flushed = true

	dst := w.rw.Header()
	for k, v := range w.header {
		dst[k] = v
	}

	status := w.Status()
	if w.body.Len() > 0 && dst.Get("Content-Length") == "" {
		dst.Set("Content-Length", strconv.Itoa(w.body.Len()))
	}
	w.rw.WriteHeader(status)

	if w.body.Len() == 0 {
		return nil
	}
	_, err := w.rw.Write(w.body.Bytes())
	return err
}

var _ ResponseWriter = (*responseWriter)(nil)
