// Package metrics provides the centralized Prometheus metrics registry for musegen.
// All metrics are defined in their respective packages (cache, generator, quota)
// to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by musegen.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - musegen_instance_cache_hits_total (Counter): Instance cache hits
//   - musegen_instance_cache_misses_total (Counter): Instance cache misses
//   - musegen_instance_cache_entries (Gauge): Current number of cached instances
//   - musegen_metadata_cache_hits_total (Counter): Metadata cache hits
//   - musegen_metadata_cache_misses_total (Counter): Metadata cache misses
//   - musegen_metadata_cache_invalidations_total{scope} (Counter): Invalidations by scope (key, all)
//
// Backend Metrics (pkg/generator):
//   - musegen_backend_requests_total{model, status} (Counter): Requests by model and HTTP status
//   - musegen_backend_request_duration_seconds{model} (Histogram): Request duration by model
//   - musegen_backend_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//
// Retry Metrics (pkg/generator):
//   - musegen_backend_retries_total{error_class} (Counter): Retry attempts by error class
//   - musegen_backend_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - musegen_backend_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Quota Metrics (pkg/quota):
//   - musegen_quota_requests_remaining (Gauge): Requests remaining in the backend quota window
//   - musegen_quota_blocks_total (Counter): Requests blocked due to critical quota
//   - musegen_quota_throttles_total (Counter): Requests throttled due to low quota
//
// Example Prometheus Queries:
//
//   # Instance Cache Hit Rate
//   sum(rate(musegen_instance_cache_hits_total[5m])) /
//   (sum(rate(musegen_instance_cache_hits_total[5m])) + sum(rate(musegen_instance_cache_misses_total[5m])))
//
//   # Quota Status
//   musegen_quota_requests_remaining < 10
//
//   # Backend Error Rate
//   rate(musegen_backend_errors_total[5m])
//
//   # P95 Backend Latency
//   histogram_quantile(0.95, rate(musegen_backend_request_duration_seconds_bucket[5m]))
