package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// KeyPrefix namespaces every cache key in Redis.
const KeyPrefix = "f1"

// CacheKey identifies one cached API page.
type CacheKey struct {
	// Endpoint is the resolved resource path (e.g. "/2023/5/laps/").
	Endpoint string

	// QueryParams carries limit and offset.
	QueryParams url.Values
}

// String generates a deterministic cache key string.
// Format: f1:endpoint:query1=val1:query2=val2
//
// Example:
//
//	f1:2023/5/laps:limit=100:offset=200
func (k CacheKey) String() string {
	parts := []string{KeyPrefix}

	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	if len(k.QueryParams) > 0 {
		queryKeys := make([]string, 0, len(k.QueryParams))
		for key := range k.QueryParams {
			queryKeys = append(queryKeys, key)
		}
		sort.Strings(queryKeys)

		for _, key := range queryKeys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.QueryParams.Get(key)))
		}
	}

	return strings.Join(parts, ":")
}
