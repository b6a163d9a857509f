package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/ssrkit/core/metrics"
)

func TestPrometheusRecorder(t *testing.T) {
	t.Parallel()

	reg := prom.NewRegistry()
	pr := metrics.NewPrometheusRecorder(reg)
	pr.ObserveRequest("GET", 200, 15*time.Millisecond)
	pr.ObserveRequest("GET", 200, 25*time.Millisecond)
	pr.ObserveRequest("GET", 404, time.Millisecond)
	pr.ObserveSpan("markdown", 2*time.Millisecond)
	pr.IncFault("runtime")
	pr.SetReloadClients(3)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	byName := make(map[string]int)
	for _, mf := range mfs {
		byName[mf.GetName()] = len(mf.GetMetric())
		switch mf.GetName() {
		case "ssrkit_livereload_clients":
			assert.Equal(t, 3.0, mf.GetMetric()[0].GetGauge().GetValue())
		case "ssrkit_faults_total":
			assert.Equal(t, 1.0, mf.GetMetric()[0].GetCounter().GetValue())
		}
	}

	assert.Equal(t, 2, byName["ssrkit_http_request_duration_seconds"], "one series per method/status")
	assert.Equal(t, 1, byName["ssrkit_span_duration_seconds"])
	assert.Equal(t, 1, byName["ssrkit_faults_total"])
	assert.Equal(t, 1, byName["ssrkit_livereload_clients"])
}

func TestPrometheusRecorderUnknownMethods(t *testing.T) {
	t.Parallel()

	reg := prom.NewRegistry()
	pr := metrics.NewPrometheusRecorder(reg)
	for _, method := range []string{"GET", "BREW", "PURGE", "X-RANDOM-1", "get"} {
		pr.ObserveRequest(method, 405, time.Millisecond)
	}

	mfs, err := reg.Gather()
	require.NoError(t, err)

	methods := make(map[string]bool)
	for _, mf := range mfs {
		if mf.GetName() != "ssrkit_http_request_duration_seconds" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "method" {
					methods[l.GetValue()] = true
				}
			}
		}
	}
	assert.Equal(t, map[string]bool{"GET": true, "other": true}, methods)
}

func TestPrometheusRecorderNil(t *testing.T) {
	t.Parallel()

	var pr *metrics.PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveRequest("GET", 200, time.Millisecond)
		pr.ObserveSpan("x", time.Millisecond)
		pr.IncFault("runtime")
		pr.SetReloadClients(1)
	})
}

func TestHTTPHandler(t *testing.T) {
	t.Parallel()

	reg := prom.NewRegistry()
	pr := metrics.NewPrometheusRecorder(reg)
	pr.ObserveSpan("render", time.Millisecond)

	srv := httptest.NewServer(metrics.HTTPHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `ssrkit_span_duration_seconds_count{span="render"} 1`)
}

func TestOrNoop(t *testing.T) {
	t.Parallel()

	assert.Equal(t, metrics.NoopRecorder{}, metrics.OrNoop(nil))

	pr := metrics.NewPrometheusRecorder(nil)
	assert.Same(t, pr, metrics.OrNoop(pr))
}
