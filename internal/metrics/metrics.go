// Package metrics exposes Prometheus metrics for the gateway
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nsvirk/nsegateway/internal/models"
	"github.com/nsvirk/nsegateway/internal/nse"
)

// Metrics holds all Prometheus metrics for the gateway.
// It records finished dispatches and observes failed attempts.
type Metrics struct {
	DispatchTotal    *prometheus.CounterVec   // labels: kind, outcome
	DispatchAttempts *prometheus.HistogramVec // labels: kind
	DispatchDuration *prometheus.HistogramVec // labels: kind
	AttemptFailures  *prometheus.CounterVec   // labels: kind, stage
}

// NewMetrics creates the metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nse_gateway_dispatch_total",
			Help: "Finished dispatches by kind and outcome",
		}, []string{"kind", "outcome"}),
		DispatchAttempts: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nse_gateway_dispatch_attempts",
			Help:    "Attempts used per dispatch",
			Buckets: []float64{1, 2, 3, 4, 6, 8},
		}, []string{"kind"}),
		DispatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nse_gateway_dispatch_duration_seconds",
			Help:    "End-to-end dispatch latency including retries",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 25, 50},
		}, []string{"kind"}),
		AttemptFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nse_gateway_attempt_failures_total",
			Help: "Failed attempts by kind and failing stage (session or fetch)",
		}, []string{"kind", "stage"}),
	}

	reg.MustRegister(
		m.DispatchTotal,
		m.DispatchAttempts,
		m.DispatchDuration,
		m.AttemptFailures,
	)
	return m
}

// AttemptFailed implements nse.Observer
func (m *Metrics) AttemptFailed(kind nse.Kind, attempt int, err error) {
	m.AttemptFailures.WithLabelValues(kind.String(), nse.Stage(err)).Inc()
}

// Record implements service.Recorder
func (m *Metrics) Record(_ context.Context, o models.DispatchOutcome) error {
	m.DispatchTotal.WithLabelValues(o.Kind, o.Outcome).Inc()
	if o.Attempts > 0 {
		m.DispatchAttempts.WithLabelValues(o.Kind).Observe(float64(o.Attempts))
	}
	m.DispatchDuration.WithLabelValues(o.Kind).Observe(o.Duration.Seconds())
	return nil
}
