package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics tracks requests served by the store.
type HTTPMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
	inflight prometheus.Gauge
}

// NewHTTPMetrics registers the server request metrics on reg.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bagzo_http_request_duration_seconds",
		Help:    "Latency of handled HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bagzo_http_requests_total",
		Help: "Handled HTTP requests by status.",
	}, []string{"method", "route", "status"})
	inflight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bagzo_http_requests_in_flight",
		Help: "Requests currently being served.",
	})
	reg.MustRegister(duration, requests, inflight)
	return &HTTPMetrics{duration: duration, requests: requests, inflight: inflight}
}

// Start marks a request as in flight.
func (m *HTTPMetrics) Start() {
	if m == nil || m.inflight == nil {
		return
	}
	m.inflight.Inc()
}

// Finish records a completed request. route should be the matched pattern,
// not the raw path.
func (m *HTTPMetrics) Finish(method, route string, status int, elapsed time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.inflight.Dec()
	route = normalizeLabel(route)
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
