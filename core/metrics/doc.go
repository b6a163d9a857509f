// Package metrics records request and span durations.
//
// Components receive a Recorder through their options and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	mux.Handle("/metrics", metrics.HTTPHandler(reg))
//
// PrometheusRecorder exposes:
//
//	ssrkit_http_request_duration_seconds{method,status}
//	ssrkit_span_duration_seconds{span}
//	ssrkit_faults_total{kind}
//	ssrkit_livereload_clients
package metrics
