package site_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/ssrkit/app/site"
)

const testMarkdown = "# Test Page\n\nSome *emphasis* here.\n"

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// publicDir lays out a public directory with the page markdown and a stylesheet.
func publicDir(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "markdown"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "markdown", "test.md"), []byte(testMarkdown), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "styles.css"), []byte("body { margin: 0; }"), 0644))
	return root
}

func testConfig(t *testing.T) site.Config {
	t.Helper()

	cfg := site.DefaultConfig()
	cfg.PublicDir = publicDir(t)
	cfg.LiveReload = false
	return cfg
}

func newTestApp(t *testing.T, cfg site.Config, opts ...site.AppOption) (*site.App, *syncBuffer) {
	t.Helper()

	logs := &syncBuffer{}
	log := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	app, err := site.NewApp(cfg, append([]site.AppOption{site.WithLogger(log)}, opts...)...)
	require.NoError(t, err)
	return app, logs
}
