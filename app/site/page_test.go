package site_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/ssrkit/app/site"
	"github.com/dmitrymomot/ssrkit/core/response"
	"github.com/dmitrymomot/ssrkit/core/router"
	"github.com/dmitrymomot/ssrkit/core/timing"
	"github.com/dmitrymomot/ssrkit/pkg/async"
	"github.com/dmitrymomot/ssrkit/pkg/fetch"
)

func servePage(t *testing.T, p *site.PageHandler) (*httptest.ResponseRecorder, *timing.Recorder, error) {
	t.Helper()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := router.NewContext(w, r)
	rec := timing.New()
	timing.Attach(ctx, rec)

	err := p.Handle(ctx)(w, ctx.Request())
	return w, rec, err
}

func spanNames(rec *timing.Recorder) []string {
	var names []string
	for _, e := range rec.Entries() {
		names = append(names, e.Name)
	}
	return names
}

func TestPageHandler(t *testing.T) {
	t.Parallel()

	md := filepath.Join(publicDir(t), "markdown", "test.md")

	tests := []struct {
		name       string
		opts       []site.PageOption
		fetcher    fetch.Fetcher
		contains   []string
		notContain []string
	}{
		{
			name:     "defaults",
			contains: []string{`<h1 class="remote">Hello World</h1>`, "<li>Wow</li>", "<title>ssrkit</title>"},
		},
		{
			name:     "remote value rendered as JSON",
			fetcher:  fetch.Static(map[string]any{"greeting": "hi"}),
			contains: []string{`<h1 class="remote">{&#34;greeting&#34;:&#34;hi&#34;}</h1>`},
		},
		{
			name:       "custom comments are escaped",
			opts:       []site.PageOption{site.WithComments("<b>bold</b>")},
			contains:   []string{"<li>&lt;b&gt;bold&lt;/b&gt;</li>"},
			notContain: []string{"<li>Wow</li>"},
		},
		{
			name:     "title and stylesheet",
			opts:     []site.PageOption{site.WithTitle("Docs"), site.WithStylesheet("/app.css")},
			contains: []string{"<title>Docs</title>", `href="/app.css"`},
		},
		{
			name:     "live reload script",
			opts:     []site.PageOption{site.WithLiveReloadScript("console.log(1)")},
			contains: []string{"<script>console.log(1)</script>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w, rec, err := servePage(t, site.NewPageHandler(md, tt.fetcher, tt.opts...))
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, w.Code)
			for _, s := range tt.contains {
				assert.Contains(t, w.Body.String(), s)
			}
			for _, s := range tt.notContain {
				assert.NotContains(t, w.Body.String(), s)
			}
			assert.Equal(t, []string{site.SpanMarkdown, site.SpanFetch, site.SpanRender}, spanNames(rec))
		})
	}
}

func TestPageHandlerFaults(t *testing.T) {
	t.Parallel()

	dir := publicDir(t)
	md := filepath.Join(dir, "markdown", "test.md")
	missing := filepath.Join(dir, "markdown", "missing.md")
	failing := fetch.FetcherFunc(func(context.Context) (any, error) {
		return nil, fetch.ErrRequest
	})
	panicking := fetch.FetcherFunc(func(context.Context) (any, error) {
		panic("fetch exploded")
	})

	tests := []struct {
		name       string
		path       string
		fetcher    fetch.Fetcher
		concurrent bool
		kind       response.Kind
		status     int
		target     error
	}{
		{name: "missing markdown", path: missing, kind: response.KindResourceUnavailable, status: http.StatusInternalServerError},
		{name: "fetch failure", path: md, fetcher: failing, kind: response.KindUpstreamUnavailable, status: http.StatusBadGateway, target: fetch.ErrRequest},
		{name: "both fail, markdown reported", path: missing, fetcher: failing, concurrent: true, kind: response.KindResourceUnavailable, status: http.StatusInternalServerError},
		{name: "concurrent fetch failure", path: md, fetcher: failing, concurrent: true, kind: response.KindUpstreamUnavailable, status: http.StatusBadGateway},
		{name: "concurrent panic", path: md, fetcher: panicking, concurrent: true, kind: response.KindRuntime, status: http.StatusInternalServerError, target: async.ErrPanic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := site.NewPageHandler(tt.path, tt.fetcher, site.WithConcurrentLoads(tt.concurrent))
			w, rec, err := servePage(t, p)

			require.Error(t, err)
			fault := response.Classify(err)
			assert.Equal(t, tt.kind, fault.Kind)
			assert.Equal(t, tt.status, fault.Status)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
			assert.Empty(t, w.Body.String(), "nothing rendered on failure")
			assert.NotContains(t, spanNames(rec), site.SpanRender)
			assert.Empty(t, rec.Open(), "failed spans are closed")
		})
	}
}

func TestPageHandlerWithoutRecorder(t *testing.T) {
	t.Parallel()

	md := filepath.Join(publicDir(t), "markdown", "test.md")
	p := site.NewPageHandler(md, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, p.Handle(router.NewContext(w, r))(w, r))
	assert.Contains(t, w.Body.String(), "Test Page")
}
