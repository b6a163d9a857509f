package livereload

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dmitrymomot/ssrkit/core/logger"
)

// DefaultDebounce is how long the watcher waits for a burst of file events
// to settle before reporting a change.
const DefaultDebounce = 300 * time.Millisecond

// ErrWatch is returned when the watched tree cannot be set up.
var ErrWatch = errors.New("livereload: failed to watch directory")

// Watcher reports changes below a directory tree, debounced.
type Watcher struct {
	root     string
	onChange func(path string)
	debounce time.Duration
	logger   *slog.Logger
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before onChange fires.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatcherLogger sets the watcher logger.
func WithWatcherLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWatcher creates a watcher for root. onChange receives the last changed
// path of each settled burst of events.
func NewWatcher(root string, onChange func(path string), opts ...WatcherOption) *Watcher {
	w := &Watcher{
		root:     root,
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is cancelled. Directories created while running are
// watched too. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Join(ErrWatch, err)
	}
	defer func() { _ = fw.Close() }()

	if err := w.addRecursive(fw, w.root); err != nil {
		return errors.Join(ErrWatch, err)
	}

	d := &debouncer{delay: w.debounce, fire: w.onChange}
	defer d.stop()

	w.logger.InfoContext(ctx, "watching for changes", logger.Component("livereload"), logger.Path(w.root))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ignored(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					_ = w.addRecursive(fw, ev.Name)
				}
			}
			w.logger.DebugContext(ctx, "file change detected",
				logger.Component("livereload"),
				logger.Path(ev.Name),
				slog.String("op", ev.Op.String()),
			)
			d.trigger(ev.Name)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.WarnContext(ctx, "watcher error", logger.Component("livereload"), logger.Error(err))
		}
	}
}

func (w *Watcher) addRecursive(fw *fsnotify.Watcher, root string) error {
	if _, err := os.Stat(root); err != nil {
		return err
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && ignored(path) {
				return filepath.SkipDir
			}
			if err := fw.Add(path); err != nil {
				w.logger.Warn("watch add failed", logger.Component("livereload"), logger.Path(path), logger.Error(err))
			}
		}
		return nil
	})
}

// debouncer calls fire with the latest path once no trigger arrived for delay.
type debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	fire    func(string)
	timer   *time.Timer
	last    string
	stopped bool
}

func (d *debouncer) trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.last = path
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.stopped {
			d.mu.Unlock()
			return
		}
		path := d.last
		d.mu.Unlock()
		d.fire(path)
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}

// ignored reports hidden, editor swap and OS metadata files.
func ignored(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."),
		strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"),
		base == "Thumbs.db":
		return true
	}
	return false
}
