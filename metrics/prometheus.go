// Package metrics provides a Prometheus-backed implementation of the
// cache's metrics contract.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus counts cache lifecycle events as Prometheus counters.
// It satisfies types.Metrics.
type Prometheus struct {
	hits          prometheus.Counter
	misses        prometheus.Counter
	expirations   prometheus.Counter
	invalidations prometheus.Counter
	evictions     prometheus.Counter
}

// New registers the counters on the default registry under the given
// namespace. Registering the same namespace twice panics, as usual with
// promauto; use NewWith for tests.
func New(namespace string) *Prometheus {
	return NewWith(prometheus.DefaultRegisterer, namespace)
}

// NewWith registers the counters on an explicit registerer.
func NewWith(reg prometheus.Registerer, namespace string) *Prometheus {
	factory := promauto.With(reg)
	return &Prometheus{
		hits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Reads that returned a live value",
		}),
		misses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Reads that found no live entry",
		}),
		expirations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_expirations_total",
			Help:      "Entries dropped because their TTL passed",
		}),
		invalidations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_invalidations_total",
			Help:      "Entries dropped because their dependency file changed",
		}),
		evictions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_evictions_total",
			Help:      "Entries removed by the store under memory pressure",
		}),
	}
}

func (m *Prometheus) Hit()        { m.hits.Inc() }
func (m *Prometheus) Miss()       { m.misses.Inc() }
func (m *Prometheus) Expire()     { m.expirations.Inc() }
func (m *Prometheus) Invalidate() { m.invalidations.Inc() }
func (m *Prometheus) Eviction()   { m.evictions.Inc() }
