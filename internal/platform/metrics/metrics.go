package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application-level Prometheus metrics. Component-local
// latency histograms live next to the components that observe them.
type Metrics struct {
	RelayRequests  *prometheus.CounterVec
	RelayDuration  prometheus.Histogram
	AccountUpdates prometheus.Counter
}

// New creates and registers all application metrics.
func New() *Metrics {
	return &Metrics{
		RelayRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "icbridge_relay_requests_total",
			Help: "Relayed operations by kind and outcome",
		}, []string{"operation", "outcome"}),
		RelayDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "icbridge_relay_duration_seconds",
			Help:    "End-to-end relay latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		}),
		AccountUpdates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "icbridge_account_updates_total",
			Help: "Total number of provider account credential updates",
		}),
	}
}

// ObserveRelay records one relayed operation.
func (m *Metrics) ObserveRelay(operation, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.RelayRequests.WithLabelValues(operation, outcome).Inc()
	m.RelayDuration.Observe(seconds)
}
