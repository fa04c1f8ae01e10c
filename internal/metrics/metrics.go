package metrics

import (
	"net/http"

	"github.com/flexprice/taxadmin/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Remote operation labels
const (
	OpFetchTaxes     = "fetch_taxes"
	OpFetchCountries = "fetch_countries"
	OpUpdateTax      = "update_tax"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	registry      *prometheus.Registry
	RemoteCalls   *prometheus.CounterVec
	CacheLookups  *prometheus.CounterVec
	Invalidations *prometheus.CounterVec
}

// New creates a registry and registers all metrics on it
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RemoteCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "taxadmin_remote_calls_total",
			Help: "Calls to the remote tax service by operation and how they resolved",
		}, []string{"operation", "outcome"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "taxadmin_query_cache_lookups_total",
			Help: "Query cache lookups by key and result (hit or miss)",
		}, []string{"key", "result"}),
		Invalidations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "taxadmin_query_cache_invalidations_total",
			Help: "Query cache invalidations by key",
		}, []string{"key"}),
	}
}

// ObserveRemote counts one remote call
func (m *Metrics) ObserveRemote(operation string, outcome types.Outcome) {
	m.RemoteCalls.WithLabelValues(operation, outcome.String()).Inc()
}

// ObserveLookup counts one cache lookup
func (m *Metrics) ObserveLookup(key string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(key, result).Inc()
}

// ObserveInvalidation counts one invalidation
func (m *Metrics) ObserveInvalidation(key string) {
	m.Invalidations.WithLabelValues(key).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
