package site

import (
	"log/slog"
	"net"
	"path/filepath"
	"time"

	"github.com/dmitrymomot/ssrkit/core/config"
	"github.com/dmitrymomot/ssrkit/core/logger"
	"github.com/dmitrymomot/ssrkit/core/server"
)

// Config is the process configuration, read once at startup.
type Config struct {
	Server server.Config

	AppName  string `env:"APP_NAME" envDefault:"ssrkit"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL"`

	// Port overrides the port of Server.Addr when set.
	Port string `env:"PORT"`

	PublicDir    string `env:"PUBLIC_DIR" envDefault:"public"`
	MarkdownPath string `env:"MARKDOWN_PATH"` // default: <PublicDir>/markdown/test.md
	Stylesheet   string `env:"STYLESHEET" envDefault:"/styles.css"`

	FetchURL     string        `env:"FETCH_URL"` // empty: static greeting
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"5s"`

	LiveReload  bool   `env:"LIVE_RELOAD" envDefault:"true"`
	MetricsAddr string `env:"METRICS_ADDR"` // empty: metrics disabled

	// ConcurrentLoads overlaps the markdown and fetch spans; their sum may
	// then exceed X-Response-Time.
	ConcurrentLoads bool `env:"CONCURRENT_LOADS" envDefault:"false"`
}

// LoadConfig reads Config from the environment and .env.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultConfig returns the configuration used when no variables are set.
func DefaultConfig() Config {
	var cfg Config
	if err := config.ParseFrom(&cfg, map[string]string{}); err != nil {
		panic(err)
	}
	return cfg
}

// ListenAddr is the address the HTTP server binds.
func (c Config) ListenAddr() string {
	if c.Port == "" {
		return c.Server.Addr
	}
	host, _, err := net.SplitHostPort(c.Server.Addr)
	if err != nil {
		host = ""
	}
	return net.JoinHostPort(host, c.Port)
}

// MarkdownFile is the markdown source of the page route.
func (c Config) MarkdownFile() string {
	if c.MarkdownPath != "" {
		return c.MarkdownPath
	}
	return filepath.Join(c.PublicDir, "markdown", "test.md")
}

// IsProduction reports whether the app runs in production mode.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// NewLogger builds the process logger for cfg: text at debug level in
// development, JSON at info level in production, LOG_LEVEL overriding
// either.
func NewLogger(cfg Config, opts ...logger.Option) (*slog.Logger, error) {
	base := []logger.Option{logger.WithDevelopment(cfg.AppName)}
	if cfg.IsProduction() {
		base = []logger.Option{logger.WithProduction(cfg.AppName)}
	}

	if cfg.LogLevel != "" {
		level, err := logger.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		base = append(base, logger.WithLevel(level))
	}

	return logger.New(append(base, opts...)...), nil
}
