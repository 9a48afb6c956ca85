package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OperationMetrics records storefront coordinator operations such as cart
// refreshes and order placement.
type OperationMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewOperationMetrics registers the operation metrics on the provided registerer.
func NewOperationMetrics(reg prometheus.Registerer) *OperationMetrics {
	if reg == nil {
		return &OperationMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bagzo_operation_duration_seconds",
		Help:    "Duration of storefront operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bagzo_operation_success_total",
		Help: "Successful storefront operations.",
	}, []string{"operation"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bagzo_operation_failure_total",
		Help: "Failed storefront operations.",
	}, []string{"operation"})
	reg.MustRegister(duration, success, failure)
	return &OperationMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// Observe records duration and outcome in one call.
func (m *OperationMetrics) Observe(operation string, started time.Time, err error) {
	m.ObserveDuration(operation, time.Since(started))
	if err != nil {
		m.IncFailure(operation)
		return
	}
	m.IncSuccess(operation)
}

// ObserveDuration records the duration for the named operation.
func (m *OperationMetrics) ObserveDuration(operation string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named operation.
func (m *OperationMetrics) IncSuccess(operation string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncFailure increments the failure counter for the named operation.
func (m *OperationMetrics) IncFailure(operation string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(operation)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
