package static

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/dmitrymomot/ssrkit/core/handler"
	"github.com/dmitrymomot/ssrkit/core/logger"
	"github.com/dmitrymomot/ssrkit/core/response"
)

// dirConfig holds configuration for directory serving
type dirConfig struct {
	root        string
	stripPrefix string
	logger      *slog.Logger
}

// DirOption configures directory serving behavior
type DirOption func(*dirConfig)

// WithStripPrefix removes the given prefix from the URL path before serving files.
// Requests outside the prefix are not found.
func WithStripPrefix(prefix string) DirOption {
	return func(c *dirConfig) {
		c.stripPrefix = prefix
	}
}

// WithLogger sets the logger that receives a debug line for every lookup.
func WithLogger(l *slog.Logger) DirOption {
	return func(c *dirConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Dir creates a handler that serves files from a directory.
//
// The request path, relative to root, names the file. GET and HEAD are
// served with http.ServeContent, so conditional and range requests work;
// other methods fail with response.ErrMethodNotAllowed and an
// "Allow: GET, HEAD" header. Missing files, paths escaping root and
// directories without an index.html fail with response.ErrNotFound.
// Directory listing is never produced. Failures reported by
// http.ServeContent, such as 412 and 416, are returned as declared faults
// instead of its plain-text bodies.
//
// Panics at startup if root is not an existing directory.
func Dir[C handler.Context](root string, opts ...DirOption) handler.HandlerFunc[C] {
	cfg := &dirConfig{
		root:   filepath.Clean(root),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if err := validateStartup(cfg.root, true); err != nil {
		panic("static.Dir: " + err.Error())
	}

	files := neuteredFileSystem{fs: http.Dir(cfg.root)}

	return func(ctx C) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				w.Header().Set("Allow", "GET, HEAD")
				return response.ErrMethodNotAllowed
			}

			name, ok := cfg.relativePath(r.URL.Path)
			cfg.logger.DebugContext(r.Context(), ">>> static try",
				logger.Component("static"),
				logger.Path(name),
			)
			if !ok {
				return response.ErrNotFound
			}

			f, info, err := files.openFile(name)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return response.ErrNotFound
				}
				return response.ResourceUnavailable(err)
			}
			defer func() { _ = f.Close() }()

			guard := &statusGuard{ResponseWriter: w}
			http.ServeContent(guard, r, info.Name(), info.ModTime(), f)
			if guard.failed != 0 {
				return response.NewHTTPError(guard.failed, http.StatusText(guard.failed))
			}
			return nil
		}
	}
}

// relativePath maps a request path to a cleaned, slash-rooted name inside root.
func (c *dirConfig) relativePath(urlPath string) (string, bool) {
	if c.stripPrefix != "" {
		trimmed := strings.TrimPrefix(urlPath, c.stripPrefix)
		if trimmed == urlPath {
			return urlPath, false
		}
		urlPath = trimmed
	}

	name := path.Clean("/" + urlPath)
	if err := validatePathSecurity(c.root, filepath.Join(c.root, filepath.FromSlash(name))); err != nil {
		return name, false
	}
	return name, true
}

// statusGuard swallows error statuses and bodies written by http.ServeContent
// and remembers the status.
type statusGuard struct {
	http.ResponseWriter
	failed int
}

func (g *statusGuard) WriteHeader(code int) {
	if code >= http.StatusBadRequest {
		g.failed = code
		return
	}
	g.ResponseWriter.WriteHeader(code)
}

func (g *statusGuard) Write(p []byte) (int, error) {
	if g.failed != 0 {
		return len(p), nil
	}
	return g.ResponseWriter.Write(p)
}
