package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "brew_water"

// metrics holds the collectors of one handler. Each handler owns its
// registry so several handlers can live in one process.
type metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	scores   *prometheus.CounterVec
	drops    prometheus.Histogram
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by handler, method and status code.",
		}, []string{"handler", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by handler and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"handler", "method"}),
		scores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "evaluations_total",
			Help:      "Evaluated profiles by resulting status.",
		}, []string{"status"}),
		drops: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "optimize_total_drops",
			Help:      "Total drops recommended per optimize request.",
			Buckets:   []float64{0, 5, 10, 20, 40, 60, 80},
		}),
	}
	m.registry.MustRegister(m.requests, m.duration, m.scores, m.drops)
	return m
}

// instrument wraps fn with the request counter and latency histogram.
func (h *handler) instrument(name string, fn http.HandlerFunc) http.Handler {
	labels := prometheus.Labels{"handler": name}
	return promhttp.InstrumentHandlerDuration(
		h.metrics.duration.MustCurryWith(labels),
		promhttp.InstrumentHandlerCounter(h.metrics.requests.MustCurryWith(labels), fn),
	)
}
