package livereload

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/ssrkit/core/handler"
	"github.com/dmitrymomot/ssrkit/core/logger"
	"github.com/dmitrymomot/ssrkit/core/metrics"
	"github.com/dmitrymomot/ssrkit/core/response"
)

const (
	clientBuffer = 8
	writeWait    = 5 * time.Second
	pingPeriod   = 30 * time.Second
)

// Hub tracks the browsers connected to the reload channel and pushes
// messages to them.
type Hub struct {
	mu      sync.RWMutex
	nextID  int
	clients map[int]*client
	closed  bool

	logger  *slog.Logger
	metrics metrics.Recorder
	wsOpts  []response.WebSocketOption
}

type client struct {
	id   int
	ch   chan string
	done chan struct{}
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithLogger sets the hub logger.
func WithLogger(l *slog.Logger) HubOption {
	return func(h *Hub) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithMetrics reports the number of connected clients.
func WithMetrics(m metrics.Recorder) HubOption {
	return func(h *Hub) {
		h.metrics = metrics.OrNoop(m)
	}
}

// WithWebSocketOptions passes options to the websocket upgrade.
func WithWebSocketOptions(opts ...response.WebSocketOption) HubOption {
	return func(h *Hub) {
		h.wsOpts = append(h.wsOpts, opts...)
	}
}

// NewHub creates an empty hub.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		clients: make(map[int]*client),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handler returns the response for the reload endpoint. It upgrades the
// request to a websocket and keeps the connection registered until either
// side closes it. A request that is not a valid websocket handshake fails
// with a declared 400 fault; after Shutdown it fails with 503.
func (h *Hub) Handler() handler.Response {
	ws := response.WebSocket(h.serve, h.wsOpts...)
	return func(w http.ResponseWriter, r *http.Request) error {
		h.mu.RLock()
		closed := h.closed
		h.mu.RUnlock()
		if closed {
			return response.ErrServiceUnavailable
		}
		return ws(w, r)
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues msg for every connected client and returns how many
// clients received it. Clients whose queue is full are disconnected.
func (h *Hub) Broadcast(msg string) int {
	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return 0
	}
	snapshot := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		snapshot = append(snapshot, c)
	}
	h.mu.RUnlock()

	sent, dropped := 0, 0
	for _, c := range snapshot {
		select {
		case c.ch <- msg:
			sent++
		default:
			dropped++
			h.remove(c.id)
		}
	}

	h.logger.Debug("live reload broadcast",
		logger.Component("livereload"),
		logger.Event(msg),
		slog.Int("clients", sent),
		slog.Int("dropped", dropped),
	)
	return sent
}

// Shutdown disconnects every client and rejects new ones.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := h.clients
	h.clients = make(map[int]*client)
	h.mu.Unlock()

	for _, c := range clients {
		close(c.done)
	}
	h.metrics.SetReloadClients(0)
}

func (h *Hub) add() (*client, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	c := &client{id: h.nextID, ch: make(chan string, clientBuffer), done: make(chan struct{})}
	h.nextID++
	h.clients[c.id] = c
	h.metrics.SetReloadClients(len(h.clients))
	return c, true
}

func (h *Hub) remove(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.done)
		h.metrics.SetReloadClients(len(h.clients))
	}
}

// serve owns one upgraded connection. Reads are drained only to notice the
// peer going away; all writes happen on this goroutine.
func (h *Hub) serve(ctx context.Context, conn *websocket.Conn) error {
	c, ok := h.add()
	if !ok {
		return conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait))
	}
	defer h.remove(c.id)

	h.logger.DebugContext(ctx, "live reload client connected", logger.Component("livereload"))

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-readDone:
			return nil
		case <-c.done:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(writeWait))
			return nil
		case msg := <-c.ch:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		}
	}
}
