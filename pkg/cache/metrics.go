package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// InstanceHits tracks instance cache hits.
	InstanceHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "musegen_instance_cache_hits_total",
			Help: "Total number of instance cache hits",
		},
	)

	// InstanceMisses tracks instance cache misses (factory invocations).
	InstanceMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "musegen_instance_cache_misses_total",
			Help: "Total number of instance cache misses",
		},
	)

	// InstanceEntries tracks the current number of cached instances.
	InstanceEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "musegen_instance_cache_entries",
			Help: "Current number of cached generation client instances",
		},
	)

	// MetadataHits tracks metadata cache hits.
	MetadataHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "musegen_metadata_cache_hits_total",
			Help: "Total number of preset metadata cache hits",
		},
	)

	// MetadataMisses tracks metadata cache misses (store loads).
	MetadataMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "musegen_metadata_cache_misses_total",
			Help: "Total number of preset metadata cache misses",
		},
	)

	// MetadataInvalidations tracks invalidations by scope ("key", "all").
	MetadataInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "musegen_metadata_cache_invalidations_total",
			Help: "Total number of preset metadata cache invalidations",
		},
		[]string{"scope"}, // "key", "all"
	)
)
