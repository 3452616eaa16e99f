// Package metrics documents the Prometheus metrics of the F1 ETL job and
// pushes them to a Pushgateway at the end of a run. The metrics themselves
// are defined in their packages (client, ratelimit, cache, pipeline).
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Registry is the default Prometheus registry used by the job.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer collects what Push sends.
var Gatherer prometheus.Gatherer = prometheus.DefaultGatherer

// Push sends all gathered metrics to the Pushgateway at url, grouped by job
// and run ID. An empty url disables the push.
func Push(ctx context.Context, url, job, runID string) error {
	if url == "" {
		return nil
	}

	pusher := push.New(url, job).Gatherer(Gatherer)
	if runID != "" {
		pusher = pusher.Grouping("run_id", runID)
	}

	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - f1_requests_total{status} (Counter): Requests by HTTP status ("network_error" for transport failures)
//   - f1_request_duration_seconds (Histogram): Request duration
//   - f1_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//   - f1_retries_total (Counter): Requests repeated after HTTP 429
//   - f1_retry_exhausted_total (Counter): Requests that hit the optional retry cap
//
// Pacing Metrics (pkg/ratelimit):
//   - f1_rate_limit_backoffs_total (Counter): Fixed backoff waits after HTTP 429
//   - f1_page_delays_total (Counter): Politeness delays between pages
//
// Cache Metrics (pkg/cache):
//   - f1_cache_hits_total{layer="redis"} (Counter): Page cache hits
//   - f1_cache_misses_total (Counter): Page cache misses
//   - f1_cache_size_bytes{layer="redis"} (Gauge): Bytes moved through the cache
//   - f1_cache_errors_total{operation} (Counter): Cache operation errors
//
// Pipeline Metrics (pkg/pipeline):
//   - f1_pages_fetched_total{endpoint} (Counter): Pages fetched per endpoint
//   - f1_rows_written_total{endpoint, sink} (Counter): Rows written per endpoint and sink
//   - f1_endpoint_duration_seconds{endpoint} (Histogram): Fetch, flatten, and store time per endpoint
//   - f1_runs_total{status} (Counter): Runs by outcome (success, error)
//
// Example Prometheus Queries:
//
//   # Rate-limit pressure per run
//   increase(f1_rate_limit_backoffs_total[1h])
//
//   # Rows written per endpoint in the last run
//   sum by (endpoint) (f1_rows_written_total{sink="sql"})
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(f1_request_duration_seconds_bucket[5m]))
