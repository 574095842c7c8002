package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records pricing and submission activity.
type StorefrontMetrics struct {
	quoteDuration *prometheus.HistogramVec
	submitSuccess *prometheus.CounterVec
	submitFailure *prometheus.CounterVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	quoteDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quote_duration_seconds",
		Help:    "Duration of quote computations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"device"})
	submitSuccess := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "purchase_submit_success",
		Help: "Successful purchase submissions.",
	}, []string{"device"})
	submitFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "purchase_submit_failure",
		Help: "Failed purchase submissions.",
	}, []string{"device"})
	reg.MustRegister(quoteDuration, submitSuccess, submitFailure)
	return &StorefrontMetrics{
		quoteDuration: quoteDuration,
		submitSuccess: submitSuccess,
		submitFailure: submitFailure,
	}
}

// ObserveQuoteDuration records the duration of one quote computation.
func (m *StorefrontMetrics) ObserveQuoteDuration(device string, duration time.Duration) {
	if m == nil || m.quoteDuration == nil {
		return
	}
	m.quoteDuration.WithLabelValues(normalizeLabel(device)).Observe(duration.Seconds())
}

// IncSubmitSuccess increments the submission success counter for the device.
func (m *StorefrontMetrics) IncSubmitSuccess(device string) {
	if m == nil || m.submitSuccess == nil {
		return
	}
	m.submitSuccess.WithLabelValues(normalizeLabel(device)).Inc()
}

// IncSubmitFailure increments the submission failure counter for the device.
func (m *StorefrontMetrics) IncSubmitFailure(device string) {
	if m == nil || m.submitFailure == nil {
		return
	}
	m.submitFailure.WithLabelValues(normalizeLabel(device)).Inc()
}

func normalizeLabel(device string) string {
	if device == "" {
		return "unknown"
	}
	return device
}
