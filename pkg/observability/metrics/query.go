package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// QueryMetrics instruments pagination and search calls per entity type.
type QueryMetrics struct {
	duration      *prometheus.HistogramVec
	queriesTotal  *prometheus.CounterVec
	tenantDenials *prometheus.CounterVec
}

// NewQueryMetrics creates the query metric collectors.
func NewQueryMetrics() *QueryMetrics {
	return &QueryMetrics{
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "query_duration_seconds",
				Help:    "Duration of pagination and search calls.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"entity_type", "operation"},
		),
		queriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "queries_total",
				Help: "Total pagination and search calls by outcome.",
			},
			[]string{"entity_type", "operation", "status"},
		),
		tenantDenials: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tenant_scope_denials_total",
				Help: "Queries denied because no tenant identity was resolvable.",
			},
			[]string{"entity_type"},
		),
	}
}

// RegisterOn registers all query collectors on the given registry.
func (m *QueryMetrics) RegisterOn(registry *Registry) {
	registry.MustRegister(m.duration, m.queriesTotal, m.tenantDenials)
}

// ObserveQuery records one completed call.
func (m *QueryMetrics) ObserveQuery(entityType, operation, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(entityType, operation).Observe(elapsed.Seconds())
	m.queriesTotal.WithLabelValues(entityType, operation, status).Inc()
}

// ObserveTenantDenial records one fail-closed tenant scope denial.
func (m *QueryMetrics) ObserveTenantDenial(entityType string) {
	if m == nil {
		return
	}
	m.tenantDenials.WithLabelValues(entityType).Inc()
}
