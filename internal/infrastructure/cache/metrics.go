package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// cacheHits tracks cache hits by serving backend.
	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pagesmith_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"backend"}, // "redis", "memory"
	)

	cacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pagesmith_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// cacheErrors tracks operational errors against the primary backend.
	cacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pagesmith_cache_errors_total",
			Help: "Total number of primary cache backend errors",
		},
		[]string{"operation"}, // "get", "set", "delete", "clear", "connect"
	)

	// cacheFailovers counts PRIMARY_ACTIVE to DEGRADED transitions.
	cacheFailovers = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pagesmith_cache_failovers_total",
			Help: "Total number of failovers to the in-memory fallback store",
		},
	)

	fallbackEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pagesmith_cache_fallback_entries",
			Help: "Current number of live entries in the fallback store",
		},
	)
)
