package metric

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tsmap"

// Outcome labels.
const (
	OutcomeHit  = "hit"
	OutcomeMiss = "miss"
)

// Registry holds all application metrics on a private Prometheus registry.
type Registry struct {
	registry *prometheus.Registry

	OpsTotal   *prometheus.CounterVec
	OpDuration *prometheus.HistogramVec
}

// NewRegistry creates a registry with operation metrics plus the Go and
// process collectors.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		OpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ops_total",
			Help:      "Completed table operations by operation and outcome.",
		}, []string{"op", "outcome"}),
		OpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "op_duration_seconds",
			Help:      "Table operation latency, including time spent waiting for the table lock.",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 12),
		}, []string{"op"}),
	}

	r.registry.MustRegister(
		r.OpsTotal,
		r.OpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveOp records one completed operation.
func (r *Registry) ObserveOp(op string, hit bool, d time.Duration) {
	outcome := OutcomeMiss
	if hit {
		outcome = OutcomeHit
	}
	r.OpsTotal.WithLabelValues(op, outcome).Inc()
	r.OpDuration.WithLabelValues(op).Observe(d.Seconds())
}

// RegisterTable exposes the statistics of a table under the given name.
func (r *Registry) RegisterTable(name string, src StatsSource) error {
	return r.registry.Register(NewCollector(name, src))
}

// Gatherer returns the underlying gatherer, mainly for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
