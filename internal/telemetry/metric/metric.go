// Package metric provides Prometheus metrics for ViewGate.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	// Evaluations counts controller evaluations by event and outcome.
	Evaluations *prometheus.CounterVec

	// EvalDuration observes evaluation latency by event.
	EvalDuration *prometheus.HistogramVec

	// SessionsActive gauges sessions currently logged in.
	SessionsActive prometheus.Gauge

	// OracleErrors counts absorbed oracle failures by operation.
	OracleErrors *prometheus.CounterVec

	// SlotOps counts slot store operations by backend and op.
	SlotOps *prometheus.CounterVec
}

// NewRegistry creates a metrics registry with all collectors registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		reg: reg,
		Evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "viewgate",
			Name:      "evaluations_total",
			Help:      "Session controller evaluations by event and outcome.",
		}, []string{"event", "outcome"}),
		EvalDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "viewgate",
			Name:      "evaluation_duration_seconds",
			Help:      "Session controller evaluation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"event"}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "viewgate",
			Name:      "sessions_active",
			Help:      "Client sessions currently logged in.",
		}),
		OracleErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "viewgate",
			Name:      "oracle_errors_total",
			Help:      "Absorbed oracle failures by operation.",
		}, []string{"operation"}),
		SlotOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "viewgate",
			Name:      "slot_operations_total",
			Help:      "Token slot store operations by backend and operation.",
		}, []string{"backend", "operation"}),
	}

	reg.MustRegister(
		r.Evaluations,
		r.EvalDuration,
		r.SessionsActive,
		r.OracleErrors,
		r.SlotOps,
	)

	return r
}

// ObserveEvaluation records one controller evaluation.
func (r *Registry) ObserveEvaluation(event, outcome string) {
	r.Evaluations.WithLabelValues(event, outcome).Inc()
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
