package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/ssrkit/core/handler"
	"github.com/dmitrymomot/ssrkit/core/logger"
	"github.com/dmitrymomot/ssrkit/core/metrics"
	"github.com/dmitrymomot/ssrkit/core/router"
	"github.com/dmitrymomot/ssrkit/core/server"
	"github.com/dmitrymomot/ssrkit/core/static"
	"github.com/dmitrymomot/ssrkit/middleware"
	"github.com/dmitrymomot/ssrkit/pkg/fetch"
	"github.com/dmitrymomot/ssrkit/pkg/livereload"
)

// ErrPublicDir is returned by NewApp when the public directory is missing.
var ErrPublicDir = errors.New("public directory is not a directory")

// ReloadMessage is broadcast to live reload clients when public files change.
const ReloadMessage = "reload"

// App wires the request pipeline, the routes and the background services.
type App struct {
	config   Config
	logger   *slog.Logger
	router   router.Router[*router.Context]
	server   *server.Server
	fetcher  fetch.Fetcher
	registry *prom.Registry
	metrics  metrics.Recorder
	hub      *livereload.Hub
	watcher  *livereload.Watcher
}

type AppOption func(*App) error

// NewApp builds the application for cfg. It fails when the public directory
// does not exist or the server configuration is invalid.
func NewApp(cfg Config, opts ...AppOption) (*App, error) {
	app := &App{
		config:  cfg,
		logger:  slog.Default(),
		metrics: metrics.NoopRecorder{},
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if cfg.MetricsAddr != "" && app.registry == nil {
		app.registry = prom.NewRegistry()
		app.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	if app.registry != nil {
		app.metrics = metrics.NewPrometheusRecorder(app.registry)
	}

	if app.fetcher == nil {
		if cfg.FetchURL != "" {
			app.fetcher = fetch.NewHTTP(cfg.FetchURL, fetch.WithTimeout(cfg.FetchTimeout))
		} else {
			app.fetcher = fetch.Static("Hello World")
		}
	}

	if app.server == nil {
		s, err := server.NewFromConfig(
			serverConfig(cfg),
			server.WithLogger(app.logger.With(logger.Component("server"))),
		)
		if err != nil {
			return nil, err
		}
		app.server = s
	}

	if err := app.routes(); err != nil {
		return nil, err
	}
	return app, nil
}

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) AppOption {
	return func(app *App) error {
		if l == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = l
		return nil
	}
}

// WithFetcher replaces the remote data source of the page.
func WithFetcher(f fetch.Fetcher) AppOption {
	return func(app *App) error {
		if f == nil {
			return errors.New("fetcher cannot be nil")
		}
		app.fetcher = f
		return nil
	}
}

// WithServer replaces the HTTP server built from the configuration.
func WithServer(s *server.Server) AppOption {
	return func(app *App) error {
		if s == nil {
			return errors.New("server cannot be nil")
		}
		app.server = s
		return nil
	}
}

// WithRegistry records metrics on reg. The caller serves reg.
func WithRegistry(reg *prom.Registry) AppOption {
	return func(app *App) error {
		if reg == nil {
			return errors.New("registry cannot be nil")
		}
		app.registry = reg
		return nil
	}
}

func (a *App) routes() error {
	if fi, err := os.Stat(a.config.PublicDir); err != nil || !fi.IsDir() {
		return fmt.Errorf("%w: %s", ErrPublicDir, a.config.PublicDir)
	}

	a.router = router.New[*router.Context](router.WithLogger[*router.Context](a.logger))
	a.router.Use(
		middleware.ErrorBoundaryWithConfig[*router.Context](middleware.ErrorBoundaryConfig{
			Logger:  a.logger,
			Metrics: a.metrics,
		}),
		middleware.RequestID[*router.Context](),
		middleware.AccessLogWithConfig[*router.Context](middleware.LoggingConfig{
			Logger:  a.logger,
			Metrics: a.metrics,
		}),
		middleware.ResponseTime[*router.Context](),
		middleware.ServerTimingWithConfig[*router.Context](middleware.ServerTimingConfig{
			Logger:  a.logger,
			Metrics: a.metrics,
		}),
	)

	pageOpts := []PageOption{
		WithTitle(a.config.AppName),
		WithStylesheet(a.config.Stylesheet),
		WithConcurrentLoads(a.config.ConcurrentLoads),
		WithPageLogger(a.logger),
	}

	if a.config.LiveReload {
		a.hub = livereload.NewHub(
			livereload.WithLogger(a.logger),
			livereload.WithMetrics(a.metrics),
		)
		a.watcher = livereload.NewWatcher(a.config.PublicDir, a.reload,
			livereload.WithWatcherLogger(a.logger),
		)
		reload := a.hub.Handler()
		a.router.Get(livereload.Path, func(*router.Context) handler.Response {
			return reload
		})
		pageOpts = append(pageOpts, WithLiveReloadScript(livereload.Script(livereload.Path)))
	}

	page := NewPageHandler(a.config.MarkdownFile(), a.fetcher, pageOpts...)
	a.router.Get("/", page.Handle)
	a.router.Fallback(static.Dir[*router.Context](a.config.PublicDir, static.WithLogger(a.logger)))

	return nil
}

func (a *App) reload(path string) {
	n := a.hub.Broadcast(ReloadMessage)
	a.logger.Info("public files changed",
		logger.Component("livereload"),
		logger.Path(path),
		slog.Int("clients", n),
	)
}

// Handler returns the request pipeline.
func (a *App) Handler() http.Handler {
	return a.router
}

// Run serves until ctx is cancelled, then shuts every service down.
// The live reload clients are disconnected first, since the HTTP server
// does not track hijacked connections.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(a.server.Run(ctx, a.router))

	if a.config.MetricsAddr != "" {
		ms := server.New(a.config.MetricsAddr, server.WithLogger(a.logger.With(logger.Component("metrics"))))
		g.Go(ms.Run(ctx, metrics.HTTPHandler(a.registry)))
	}

	if a.hub != nil {
		g.Go(func() error {
			return a.watcher.Run(ctx)
		})
		g.Go(func() error {
			<-ctx.Done()
			a.hub.Shutdown()
			return nil
		})
	}

	return g.Wait()
}

func serverConfig(cfg Config) server.Config {
	sc := cfg.Server
	sc.Addr = cfg.ListenAddr()
	return sc
}
