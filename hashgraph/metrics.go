// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hashgraph

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the Prometheus collectors the core registers against
// the Registerer it is constructed with, following the Register
// pattern used throughout the teacher's own metrics package.
type metrics struct {
	eventsInserted      prometheus.Counter
	pendingLoadedEvents prometheus.GaugeFunc
	topologicalIndex    prometheus.GaugeFunc
	cacheHits           *prometheus.CounterVec
	cacheMisses         *prometheus.CounterVec
}

// newMetrics builds and registers the core's collectors. A nil
// registerer is accepted and yields a metrics value whose collectors
// are still usable but never exposed to a scraper -- useful for tests
// that don't care about observability.
func newMetrics(reg prometheus.Registerer, h *Hashgraph) (*metrics, error) {
	m := &metrics{
		eventsInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hashgraph_events_inserted_total",
			Help: "Number of events that have completed InsertEvent.",
		}),
		pendingLoadedEvents: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "hashgraph_pending_loaded_events",
			Help: "Events carrying a non-empty payload not yet committed.",
		}, func() float64 { return float64(h.PendingLoadedEvents()) }),
		topologicalIndex: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "hashgraph_topological_index",
			Help: "Next topological index to be assigned.",
		}, func() float64 { return float64(h.topologicalIndex) }),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hashgraph_cache_hits_total",
			Help: "Predicate cache hits, by cache name.",
		}, []string{"cache"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hashgraph_cache_misses_total",
			Help: "Predicate cache misses, by cache name.",
		}, []string{"cache"}),
	}

	if reg == nil {
		return m, nil
	}

	collectors := []prometheus.Collector{
		m.eventsInserted,
		m.pendingLoadedEvents,
		m.topologicalIndex,
		m.cacheHits,
		m.cacheMisses,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
