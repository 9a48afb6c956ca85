package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RemoteMetrics tracks calls made by the storefront client to the store.
type RemoteMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
}

// NewRemoteMetrics registers the remote call metrics on reg.
func NewRemoteMetrics(reg prometheus.Registerer) *RemoteMetrics {
	if reg == nil {
		return &RemoteMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bagzo_store_request_duration_seconds",
		Help:    "Latency of requests to the resource store.",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource", "method"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bagzo_store_requests_total",
		Help: "Requests sent to the resource store by status.",
	}, []string{"resource", "method", "status"})
	reg.MustRegister(duration, requests)
	return &RemoteMetrics{duration: duration, requests: requests}
}

// Observe records one request. A status of 0 means the transport failed.
func (m *RemoteMetrics) Observe(resource, method string, status int, elapsed time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	resource = normalizeLabel(resource)
	method = normalizeLabel(method)
	m.duration.WithLabelValues(resource, method).Observe(elapsed.Seconds())
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(resource, method, label).Inc()
}
