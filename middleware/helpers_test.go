package middleware_test

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

func ok200(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(http.StatusOK)
	return nil
}

// testLogHandler captures log entries for testing
type testLogHandler struct {
	mu      sync.Mutex
	entries []map[string]any
}

func (h *testLogHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *testLogHandler) Handle(_ context.Context, r slog.Record) error {
	entry := make(map[string]any)
	entry["level"] = r.Level.String()
	entry["msg"] = r.Message

	r.Attrs(func(a slog.Attr) bool {
		entry[a.Key] = a.Value.Any()
		return true
	})

	h.mu.Lock()
	h.entries = append(h.entries, entry)
	h.mu.Unlock()
	return nil
}

func (h *testLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *testLogHandler) WithGroup(name string) slog.Handler {
	return h
}

func (h *testLogHandler) Entries() []map[string]any {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]map[string]any, len(h.entries))
	copy(out, h.entries)
	return out
}

// recordingMetrics captures observations for testing
type recordingMetrics struct {
	mu       sync.Mutex
	requests []string
	spans    []string
	faults   []string
}

func (m *recordingMetrics) ObserveRequest(method string, status int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, method+" "+http.StatusText(status))
}

func (m *recordingMetrics) ObserveSpan(name string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spans = append(m.spans, name)
}

func (m *recordingMetrics) IncFault(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faults = append(m.faults, kind)
}

func (m *recordingMetrics) SetReloadClients(int) {}
