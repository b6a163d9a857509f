// Package fetch provides the remote data collaborator of the page route.
//
// A Fetcher returns an arbitrary JSON-compatible value. NewHTTP builds one
// that GETs a URL and decodes the JSON body; Static returns a fixed value,
// which is what the server uses when no upstream is configured.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

var (
	// ErrRequest is returned when the upstream request cannot be made or sent.
	ErrRequest = errors.New("fetch: request failed")
	// ErrUpstreamStatus is returned for non-2xx upstream responses.
	ErrUpstreamStatus = errors.New("fetch: unexpected upstream status")
	// ErrDecode is returned when the upstream body is not valid JSON.
	ErrDecode = errors.New("fetch: failed to decode upstream response")
)

// DefaultTimeout bounds a single upstream call.
const DefaultTimeout = 5 * time.Second

// maxBody limits how much of an upstream body is read.
const maxBody = 1 << 20

// Fetcher loads the remote value of a page.
type Fetcher interface {
	Fetch(ctx context.Context) (any, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) (any, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context) (any, error) {
	return f(ctx)
}

// Static returns a Fetcher that always yields v.
func Static(v any) Fetcher {
	return FetcherFunc(func(context.Context) (any, error) {
		return v, nil
	})
}

// HTTP fetches and decodes a JSON document.
type HTTP struct {
	url     string
	client  *http.Client
	timeout time.Duration
	header  http.Header
}

// Option configures an HTTP fetcher.
type Option func(*HTTP)

// WithClient replaces the default http.Client.
func WithClient(c *http.Client) Option {
	return func(h *HTTP) {
		if c != nil {
			h.client = c
		}
	}
}

// WithTimeout bounds each call. Zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTP) {
		h.timeout = d
	}
}

// WithHeader adds a request header sent with every call.
func WithHeader(key, value string) Option {
	return func(h *HTTP) {
		h.header.Add(key, value)
	}
}

// NewHTTP creates a fetcher for url.
func NewHTTP(url string, opts ...Option) *HTTP {
	h := &HTTP{
		url:     url,
		client:  http.DefaultClient,
		timeout: DefaultTimeout,
		header:  http.Header{"Accept": []string{"application/json"}},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Fetch performs the GET and decodes the body into a generic value
// (map[string]any, []any, string, float64, bool or nil).
// Cancelling ctx, e.g. when the client disconnects, aborts the call.
func (h *HTTP) Fetch(ctx context.Context) (any, error) {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, errors.Join(ErrRequest, err)
	}
	req.Header = h.header.Clone()

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, errors.Join(ErrRequest, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil, fmt.Errorf("%w: %s %d", ErrUpstreamStatus, h.url, resp.StatusCode)
	}

	var v any
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&v); err != nil {
		return nil, errors.Join(ErrDecode, err)
	}
	return v, nil
}
