package logger

import (
	"log/slog"
	"runtime"
	"time"
)

// Attribute helpers return an empty Attr for zero inputs, which slog drops.
// This allows calls like log.Info("msg", logger.Error(err)) without explicit nil checks.

// Group creates a group of attributes under a single key.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error creates an attribute for a single error under the key "error".
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}

// Duration creates an attribute for a duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// ResponseTime creates an attribute for the value of the X-Response-Time header.
func ResponseTime(rt string) slog.Attr {
	if rt == "" {
		return slog.Attr{}
	}
	return slog.String("response_time", rt)
}

// RequestID creates an attribute for HTTP request IDs.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Method creates an attribute for HTTP methods.
func Method(method string) slog.Attr {
	return slog.String("method", method)
}

// Path creates an attribute for URL paths.
func Path(path string) slog.Attr {
	return slog.String("path", path)
}

// StatusCode creates an attribute for HTTP status codes.
func StatusCode(code int) slog.Attr {
	return slog.Int("status", code)
}

// Kind creates an attribute for the failure category of an error response.
func Kind(kind string) slog.Attr {
	if kind == "" {
		return slog.Attr{}
	}
	return slog.String("kind", kind)
}

// Span creates an attribute for a timing span name.
func Span(name string) slog.Attr {
	return slog.String("span", name)
}

// Component creates an attribute for component names.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event creates an attribute for event names.
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// URL creates an attribute for an address the process listens on or calls.
func URL(u string) slog.Attr {
	return slog.String("url", u)
}

// Stack creates an attribute for a stack trace. A nil stack captures the
// current goroutine's.
func Stack(stack []byte) slog.Attr {
	if stack == nil {
		const size = 64 << 10
		buf := make([]byte, size)
		stack = buf[:runtime.Stack(buf, false)]
	}
	return slog.String("stack", string(stack))
}
