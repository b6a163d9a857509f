// Package ssrkit is a small server-side rendering stack: a typed router with
// an ordered middleware pipeline, a page route that renders markdown and a
// remote value into HTML, a static file fallback and a websocket live reload
// channel.
//
// The root package holds no code. The command lives in cmd/ssrkit; the
// building blocks are importable on their own.
//
// # Core
//
//   - github.com/dmitrymomot/ssrkit/core/handler: handler, response and middleware types
//   - github.com/dmitrymomot/ssrkit/core/router: router with buffered writer and fallback
//   - github.com/dmitrymomot/ssrkit/core/response: renderers and the fault model
//   - github.com/dmitrymomot/ssrkit/core/static: directory serving for the fallback
//   - github.com/dmitrymomot/ssrkit/core/timing: per-request span recorder
//   - github.com/dmitrymomot/ssrkit/core/metrics: request, span and fault metrics
//   - github.com/dmitrymomot/ssrkit/core/server: HTTP server with graceful shutdown
//   - github.com/dmitrymomot/ssrkit/core/config: environment and .env loading
//   - github.com/dmitrymomot/ssrkit/core/logger: slog construction and attributes
//
// # Middleware
//
//   - github.com/dmitrymomot/ssrkit/middleware: error boundary, request ID, access log,
//     response time and server timing stages
//
// # Utilities
//
//   - github.com/dmitrymomot/ssrkit/pkg/async: futures for concurrent loads
//   - github.com/dmitrymomot/ssrkit/pkg/fetch: remote data collaborator
//   - github.com/dmitrymomot/ssrkit/pkg/markdown: markdown to HTML conversion
//   - github.com/dmitrymomot/ssrkit/pkg/livereload: websocket hub and file watcher
//
// # Application
//
//   - github.com/dmitrymomot/ssrkit/app/site: configuration, page route and wiring
//   - github.com/dmitrymomot/ssrkit/view: the HTML document
package ssrkit
