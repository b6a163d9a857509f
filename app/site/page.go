package site

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/ssrkit/core/handler"
	"github.com/dmitrymomot/ssrkit/core/logger"
	"github.com/dmitrymomot/ssrkit/core/response"
	"github.com/dmitrymomot/ssrkit/core/router"
	"github.com/dmitrymomot/ssrkit/core/timing"
	"github.com/dmitrymomot/ssrkit/middleware"
	"github.com/dmitrymomot/ssrkit/pkg/async"
	"github.com/dmitrymomot/ssrkit/pkg/fetch"
	"github.com/dmitrymomot/ssrkit/pkg/markdown"
	"github.com/dmitrymomot/ssrkit/view"
)

// Span names recorded by the page route, in request order.
const (
	SpanMarkdown = "markdown"
	SpanFetch    = "fetch"
	SpanRender   = "render"
)

// DefaultComments is the comment list shown on the page.
var DefaultComments = []string{
	"Hey! This is the first comment.",
	"Hi, from another comment!",
	"Wow",
}

// PageHandler serves the home page: markdown from disk, a value from the
// fetch collaborator and a fixed comment list, rendered into one document.
type PageHandler struct {
	markdownPath string
	fetcher      fetch.Fetcher
	comments     []string
	title        string
	stylesheet   string
	script       string
	concurrent   bool
	logger       *slog.Logger
}

// PageOption configures a PageHandler.
type PageOption func(*PageHandler)

// WithConcurrentLoads loads markdown and remote data at the same time.
// Both spans are still recorded; since they overlap, only the longer of the
// two plus render is bounded by the response time.
func WithConcurrentLoads(enabled bool) PageOption {
	return func(p *PageHandler) {
		p.concurrent = enabled
	}
}

// WithLiveReloadScript embeds the reload client script in the page.
func WithLiveReloadScript(script string) PageOption {
	return func(p *PageHandler) {
		p.script = script
	}
}

// WithStylesheet links the page to the stylesheet at href.
func WithStylesheet(href string) PageOption {
	return func(p *PageHandler) {
		p.stylesheet = href
	}
}

// WithTitle sets the document title.
func WithTitle(title string) PageOption {
	return func(p *PageHandler) {
		p.title = title
	}
}

// WithComments replaces the comment list.
func WithComments(comments ...string) PageOption {
	return func(p *PageHandler) {
		p.comments = comments
	}
}

// WithPageLogger sets the logger for load diagnostics.
func WithPageLogger(l *slog.Logger) PageOption {
	return func(p *PageHandler) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPageHandler creates the page handler. A nil fetcher falls back to a
// static greeting.
func NewPageHandler(markdownPath string, fetcher fetch.Fetcher, opts ...PageOption) *PageHandler {
	if fetcher == nil {
		fetcher = fetch.Static("Hello World")
	}
	p := &PageHandler{
		markdownPath: markdownPath,
		fetcher:      fetcher,
		comments:     DefaultComments,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Handle loads the page inputs inside their spans and returns a response
// that renders the document inside the render span.
// A markdown failure is a resource fault (500), a fetch failure an
// upstream fault (502).
func (p *PageHandler) Handle(ctx *router.Context) handler.Response {
	spans := timing.FromContext(ctx)

	var (
		html   string
		remote any
		err    error
	)
	if p.concurrent {
		html, remote, err = p.loadConcurrently(ctx, spans)
	} else {
		html, remote, err = p.loadSequentially(ctx, spans)
	}
	if err != nil {
		id, _ := middleware.GetRequestID(ctx)
		p.logger.DebugContext(ctx, "page inputs failed",
			logger.Component("page"),
			logger.RequestID(id),
			logger.Error(err),
		)
		return response.Error(err)
	}

	page := view.Page(view.PageData{
		Title:        p.title,
		Stylesheet:   p.stylesheet,
		Remote:       remote,
		Comments:     p.comments,
		MarkdownHTML: html,
		LiveReload:   p.script,
	})
	render := response.Templ(page)

	return func(w http.ResponseWriter, r *http.Request) error {
		return timing.FromContext(r.Context()).Span(SpanRender, func() error {
			return render(w, r)
		})
	}
}

func (p *PageHandler) loadSequentially(ctx context.Context, spans *timing.Recorder) (string, any, error) {
	html, err := p.loadMarkdown(ctx, spans)
	if err != nil {
		return "", nil, err
	}
	remote, err := p.fetch(ctx, spans)
	if err != nil {
		return "", nil, err
	}
	return html, remote, nil
}

// loadConcurrently reports the markdown failure first when both loads fail.
// The markdown and fetch spans overlap, so their durations may add up to
// more than the response time.
func (p *PageHandler) loadConcurrently(ctx context.Context, spans *timing.Recorder) (string, any, error) {
	md := async.Async(ctx, spans, func(ctx context.Context, spans *timing.Recorder) (any, error) {
		return p.loadMarkdown(ctx, spans)
	})
	remote := async.Async(ctx, spans, p.fetch)

	results, err := async.WaitAll(md, remote)
	if err != nil {
		return "", nil, err
	}
	html, _ := results[0].(string)
	return html, results[1], nil
}

func (p *PageHandler) loadMarkdown(_ context.Context, spans *timing.Recorder) (html string, err error) {
	err = spans.Span(SpanMarkdown, func() error {
		var loadErr error
		html, loadErr = markdown.Load(p.markdownPath)
		if loadErr != nil {
			return response.ResourceUnavailable(loadErr)
		}
		return nil
	})
	return html, err
}

func (p *PageHandler) fetch(ctx context.Context, spans *timing.Recorder) (v any, err error) {
	err = spans.Span(SpanFetch, func() error {
		var fetchErr error
		v, fetchErr = p.fetcher.Fetch(ctx)
		if fetchErr != nil {
			return response.UpstreamUnavailable(fetchErr)
		}
		return nil
	})
	return v, err
}
