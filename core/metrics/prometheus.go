package metrics

import (
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ssrkit"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	requestDuration *prom.HistogramVec
	spanDuration    *prom.HistogramVec
	faults          *prom.CounterVec
	reloadClients   prom.Gauge
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		requestDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests by method and status",
			Buckets:   prom.DefBuckets,
		}, []string{"method", "status"}),
		spanDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "span_duration_seconds",
			Help:      "Duration of named request spans",
			Buckets:   prom.DefBuckets,
		}, []string{"span"}),
		faults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "faults_total",
			Help:      "Error responses rendered by failure kind",
		}, []string{"kind"}),
		reloadClients: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "livereload_clients",
			Help:      "Connected live reload clients",
		}),
	}
	reg.MustRegister(pr.requestDuration, pr.spanDuration, pr.faults, pr.reloadClients)
	return pr
}

func (p *PrometheusRecorder) ObserveRequest(method string, status int, d time.Duration) {
	if p == nil {
		return
	}
	p.requestDuration.WithLabelValues(methodLabel(method), strconv.Itoa(status)).Observe(d.Seconds())
}

// knownMethods bounds the method label; anything else is recorded as "other".
var knownMethods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodHead:    {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodPatch:   {},
	http.MethodDelete:  {},
	http.MethodConnect: {},
	http.MethodOptions: {},
	http.MethodTrace:   {},
}

func methodLabel(method string) string {
	if _, ok := knownMethods[method]; ok {
		return method
	}
	return "other"
}

func (p *PrometheusRecorder) ObserveSpan(name string, d time.Duration) {
	if p == nil {
		return
	}
	p.spanDuration.WithLabelValues(name).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncFault(kind string) {
	if p == nil {
		return
	}
	p.faults.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) SetReloadClients(n int) {
	if p == nil {
		return
	}
	p.reloadClients.Set(float64(n))
}

// HTTPHandler returns an http.Handler that serves the metrics of reg.
func HTTPHandler(reg *prom.Registry) http.Handler {
	if reg == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
