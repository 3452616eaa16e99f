// Package cache provides an opt-in Redis page cache for F1 API responses.
//
// Re-running the job for a finished season fetches the same pages again.
// With a cache configured, the client stores every decoded-OK response body
// under a key derived from the resource path and its limit/offset query, and
// serves later requests for the same page without touching the network.
//
// # Basic Usage
//
//	manager, err := cache.NewManagerFromURL("redis://localhost:6379/0")
//	if err != nil {
//		return err
//	}
//	defer manager.Close()
//
//	key := cache.CacheKey{
//		Endpoint:    "/2023/results/",
//		QueryParams: url.Values{"limit": []string{"100"}, "offset": []string{"0"}},
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch from the API, then manager.Set(ctx, key, cache.NewEntry(body, 200, ttl))
//	}
//
// # Metrics
//
//   - f1_cache_hits_total{layer="redis"}
//   - f1_cache_misses_total
//   - f1_cache_size_bytes{layer="redis"}
//   - f1_cache_errors_total{operation}
package cache
