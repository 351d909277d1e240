// Package cache provides the in-process caches used by the musegen service.
//
// Two caches share the same lazy-populate, invalidate-on-mutation pattern:
//
//   - InstanceCache memoizes expensive-to-construct generation clients by
//     a key derived from their configuration. Entries never expire; the
//     cache is cleared wholesale at shutdown.
//   - MetadataCache memoizes lightweight preset summaries by preset name.
//     Entries are invalidated whenever the underlying preset is saved or
//     deleted.
//
// # Instance Caching
//
//	cache := cache.NewInstanceCache(func(ctx context.Context, cfg generator.Config) (*generator.Client, error) {
//		return generator.New(cfg)
//	})
//
//	// Same effective configuration -> same client, factory runs once.
//	client, err := cache.GetOrCreate(ctx, cfg)
//
// Concurrent GetOrCreate calls for the same key construct at most one
// instance: construction is serialized per key via singleflight, so an
// expensive client (connection pool, token exchange) is never built twice
// for concurrent callers.
//
// # Metadata Caching
//
//	meta := cache.NewMetadataCache(store, preset.MetadataOf)
//
//	summaries, err := meta.List(ctx)   // loads misses from the store
//	meta.Invalidate("ambient-pad")     // called by every save/delete path
//
// The metadata cache never returns a summary inconsistent with the last
// completed write: mutating paths invalidate synchronously before they
// return to the caller.
//
// # Metrics
//
// The package exports Prometheus metrics:
//
//   - musegen_instance_cache_hits_total / _misses_total
//   - musegen_instance_cache_entries
//   - musegen_metadata_cache_hits_total / _misses_total
//   - musegen_metadata_cache_invalidations_total
//
// Both caches are unbounded. This is deliberate: the instance key space is
// limited to the distinct backend configurations a deployment actually
// uses, and the metadata key space to the presets on disk.
package cache
