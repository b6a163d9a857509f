package response

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/ssrkit/core/handler"
)

type wsConfig struct {
	upgrader       *websocket.Upgrader
	responseHeader http.Header
	messageHandler func(context.Context, *websocket.Conn) error
	onConnect      func(context.Context, *websocket.Conn) error
	onDisconnect   func(context.Context, *websocket.Conn)
	onError        func(context.Context, error)
}

// WebSocketOption configures a WebSocket response.
type WebSocketOption func(*wsConfig)

// WithWSReadBuffer sets the upgrader read buffer size.
func WithWSReadBuffer(size int) WebSocketOption {
	return func(c *wsConfig) {
		c.upgrader.ReadBufferSize = size
	}
}

// WithWSWriteBuffer sets the upgrader write buffer size.
func WithWSWriteBuffer(size int) WebSocketOption {
	return func(c *wsConfig) {
		c.upgrader.WriteBufferSize = size
	}
}

// WithWSHandshakeTimeout limits the duration of the opening handshake.
func WithWSHandshakeTimeout(timeout time.Duration) WebSocketOption {
	return func(c *wsConfig) {
		c.upgrader.HandshakeTimeout = timeout
	}
}

// WithWSOriginCheck replaces the default same-origin check.
func WithWSOriginCheck(fn func(r *http.Request) bool) WebSocketOption {
	return func(c *wsConfig) {
		c.upgrader.CheckOrigin = fn
	}
}

// WithWSAllowAnyOrigin disables the origin check.
func WithWSAllowAnyOrigin() WebSocketOption {
	return func(c *wsConfig) {
		c.upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	}
}

// WithWSUpgradeHeaders adds headers to the 101 Switching Protocols response.
func WithWSUpgradeHeaders(header http.Header) WebSocketOption {
	return func(c *wsConfig) {
		c.responseHeader = header
	}
}

// WithWSOnConnect is called right after a successful upgrade.
// Returning an error closes the connection.
func WithWSOnConnect(fn func(context.Context, *websocket.Conn) error) WebSocketOption {
	return func(c *wsConfig) {
		c.onConnect = fn
	}
}

// WithWSOnDisconnect is called after the connection is closed.
func WithWSOnDisconnect(fn func(context.Context, *websocket.Conn)) WebSocketOption {
	return func(c *wsConfig) {
		c.onDisconnect = fn
	}
}

// WithWSErrorHandler receives errors raised after the upgrade.
func WithWSErrorHandler(fn func(context.Context, error)) WebSocketOption {
	return func(c *wsConfig) {
		c.onError = fn
	}
}

// WebSocket upgrades the connection and hands it to messageHandler, which owns
// the connection until it returns.
//
// A failed handshake is returned as a declared fault carrying the status the
// upgrader chose (usually 400), so the error boundary renders it. Errors after
// the upgrade cannot produce an HTTP response and go to the error callback.
func WebSocket(messageHandler func(context.Context, *websocket.Conn) error, opts ...WebSocketOption) handler.Response {
	cfg := &wsConfig{
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		messageHandler: messageHandler,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) error {
		upgrader := *cfg.upgrader

		var handshakeErr error
		upgrader.Error = func(_ http.ResponseWriter, _ *http.Request, status int, reason error) {
			handshakeErr = NewHTTPError(status, reason.Error()).WithError(reason)
		}

		conn, err := upgrader.Upgrade(w, r, cfg.responseHeader)
		if err != nil {
			if handshakeErr != nil {
				return handshakeErr
			}
			return errors.Join(ErrBadRequest, err)
		}
		defer func() {
			_ = conn.Close()
			if cfg.onDisconnect != nil {
				cfg.onDisconnect(r.Context(), conn)
			}
		}()

		if cfg.onConnect != nil {
			if err := cfg.onConnect(r.Context(), conn); err != nil {
				if cfg.onError != nil {
					cfg.onError(r.Context(), err)
				}
				return nil
			}
		}

		if err := cfg.messageHandler(r.Context(), conn); err != nil {
			if cfg.onError != nil {
				cfg.onError(r.Context(), err)
			}
		}

		return nil
	}
}
