package timing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
)

var (
	ErrUndefinedSpan = errors.New("timing: span was never started")
	ErrSpanOpen      = errors.New("timing: span already started")
	ErrUnclosedSpan  = errors.New("timing: span was never ended")
	ErrInvalidName   = errors.New("timing: invalid span name")
)

// Entry is a completed span.
type Entry struct {
	Name     string
	Duration time.Duration
}

// Millis returns the span duration in whole milliseconds, truncated.
func (e Entry) Millis() int64 {
	return e.Duration.Milliseconds()
}

// String formats the entry as a Server-Timing metric.
func (e Entry) String() string {
	return fmt.Sprintf("%s;dur=%d", e.Name, e.Millis())
}

// Recorder collects named spans for a single request.
// Any number of differently named spans may be open at the same time.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	mu     sync.Mutex
	open   map[string]time.Time
	done   []Entry
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithLogger sets the logger used to report misuse such as ending an unknown span.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

// New creates an empty recorder.
func New(opts ...Option) *Recorder {
	r := &Recorder{
		open:   make(map[string]time.Time),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start opens the span name.
func (r *Recorder) Start(name string) error {
	if r == nil {
		return nil
	}
	if !validName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.open[name]; ok {
		return fmt.Errorf("%w: %q", ErrSpanOpen, name)
	}
	r.open[name] = r.now()
	return nil
}

// End closes the span name and returns its duration.
// Ending a span that is not open is a programming defect: it is logged at
// error level and ErrUndefinedSpan is returned.
func (r *Recorder) End(name string) (time.Duration, error) {
	if r == nil {
		return 0, nil
	}

	r.mu.Lock()
	start, ok := r.open[name]
	if !ok {
		r.mu.Unlock()
		r.logger.Error("timing span ended without start", slog.String("span", name))
		return 0, fmt.Errorf("%w: %q", ErrUndefinedSpan, name)
	}
	d := r.now().Sub(start)
	delete(r.open, name)
	r.done = append(r.done, Entry{Name: name, Duration: d})
	r.mu.Unlock()

	return d, nil
}

// Span runs fn inside the span name. The span is closed even when fn
// returns an error or panics.
func (r *Recorder) Span(name string, fn func() error) (err error) {
	if err := r.Start(name); err != nil {
		return err
	}
	defer func() {
		if _, endErr := r.End(name); endErr != nil && err == nil {
			err = endErr
		}
	}()
	return fn()
}

// Entries returns the completed spans in completion order.
func (r *Recorder) Entries() []Entry {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.done)
}

// Open returns the names of spans that were started but not ended, sorted.
func (r *Recorder) Open() []string {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.open))
	for name := range r.open {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Header serializes completed spans as a Server-Timing header value:
// "name;dur=<ms>" entries joined by ", ". If spans are still open, the
// header still lists the completed ones and ErrUnclosedSpan names the rest.
func (r *Recorder) Header() (string, error) {
	entries := r.Entries()
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.String()
	}
	header := strings.Join(parts, ", ")

	if open := r.Open(); len(open) > 0 {
		return header, fmt.Errorf("%w: %s", ErrUnclosedSpan, strings.Join(open, ", "))
	}
	return header, nil
}

type recorderContextKey struct{}

// WithRecorder returns a copy of ctx that carries r.
func WithRecorder(ctx context.Context, r *Recorder) context.Context {
	return context.WithValue(ctx, recorderContextKey{}, r)
}

// Attach stores r in a request context that supports SetValue, such as
// a handler context.
func Attach(ctx interface{ SetValue(key, val any) }, r *Recorder) {
	ctx.SetValue(recorderContextKey{}, r)
}

// FromContext returns the recorder stored in ctx, or nil.
func FromContext(ctx context.Context) *Recorder {
	r, _ := ctx.Value(recorderContextKey{}).(*Recorder)
	return r
}

// validName reports whether name is a non-empty HTTP token,
// so it can appear unquoted in a Server-Timing header.
func validName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case strings.IndexByte("!#$%&'*+-.^_`|~", c) >= 0:
		default:
			return false
		}
	}
	return true
}
