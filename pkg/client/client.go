// Package client provides the HTTP client for the F1 statistics API with
// rate-limit retries, error classification, and an optional page cache.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/f1-etl/pkg/cache"
	"github.com/Sternrassler/f1-etl/pkg/ergast"
	"github.com/Sternrassler/f1-etl/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Defaults for the public API.
const (
	DefaultBaseURL   = "https://api.jolpi.ca/ergast/f1"
	DefaultTimeout   = 60 * time.Second
	DefaultUserAgent = "f1-etl/0.1.0"
)

// Prometheus metrics for API requests.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "f1_requests_total",
		Help: "Total F1 API requests by status",
	}, []string{"status"})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "f1_request_duration_seconds",
		Help:    "F1 API request duration in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "f1_errors_total",
		Help: "Total F1 API errors by class",
	}, []string{"class"})
)

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx errors other than 429.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents HTTP 429 Too Many Requests.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// PageCache stores raw response bodies. *cache.Manager implements it.
type PageCache interface {
	Get(ctx context.Context, key cache.CacheKey) (*cache.CacheEntry, error)
	Set(ctx context.Context, key cache.CacheKey, entry *cache.CacheEntry) error
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is prepended to every resource path.
	BaseURL string

	// UserAgent header sent with every request.
	UserAgent string

	// Timeout per request. Ignored when HTTPClient is set.
	Timeout time.Duration

	// RateLimit controls 429 backoff and the delay between pages.
	RateLimit ratelimit.Policy

	// HTTPClient is the shared connection-reusing client. Built from Timeout when nil.
	HTTPClient *http.Client

	// Sleeper performs backoff waits. ratelimit.ContextSleeper when nil.
	Sleeper ratelimit.Sleeper

	// Cache is optional. Cached pages skip the network entirely.
	Cache    PageCache
	CacheTTL time.Duration
}

// DefaultConfig returns a configuration for the public API.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: DefaultUserAgent,
		Timeout:   DefaultTimeout,
		RateLimit: ratelimit.DefaultPolicy(),
		CacheTTL:  cache.DefaultTTL,
	}
}

// Client issues GET requests against the F1 API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	throttle   *ratelimit.Throttle
	cache      PageCache
	config     Config
	logger     zerolog.Logger
}

// New creates a new API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.HTTPClient == nil && cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be > 0 (got %s)", cfg.Timeout)
	}
	if err := cfg.RateLimit.Validate(); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	if cfg.Cache != nil && cfg.CacheTTL <= 0 {
		cfg.CacheTTL = cache.DefaultTTL
	}

	logger := log.With().Str("component", "f1-client").Logger()

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		throttle:   ratelimit.NewThrottle(cfg.RateLimit, cfg.Sleeper, logger),
		cache:      cfg.Cache,
		config:     cfg,
		logger:     logger,
	}, nil
}

// Throttle returns the pacing used by this client. The paginated fetcher
// uses it for the delay between pages.
func (c *Client) Throttle() *ratelimit.Throttle {
	return c.throttle
}

// GetPage fetches path with the given query and decodes the JSON body.
// HTTP 429 responses are retried after the fixed backoff; every other
// non-2xx status returns an *APIError.
func (c *Client) GetPage(ctx context.Context, path string, query url.Values) (ergast.Page, error) {
	key := cache.CacheKey{Endpoint: path, QueryParams: query}

	if c.cache != nil {
		entry, err := c.cache.Get(ctx, key)
		switch {
		case err == nil:
			if page, decErr := ergast.Decode(bytes.NewReader(entry.Data)); decErr == nil {
				c.logger.Debug().Str("path", path).Str("query", query.Encode()).Msg("Cache hit")
				return page, nil
			}
			c.logger.Warn().Str("path", path).Msg("Cached page not decodable, refetching")
		case errors.Is(err, cache.ErrCacheMiss):
		default:
			c.logger.Warn().Err(err).Str("path", path).Msg("Cache get error")
		}
	}

	var body []byte
	err := retryRateLimited(ctx, c.throttle, c.logger, path, func() error {
		var reqErr error
		body, reqErr = c.do(ctx, path, query)
		return reqErr
	})
	if err != nil {
		return nil, err
	}

	page, err := ergast.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedResponse, path, err)
	}

	if c.cache != nil {
		entry := cache.NewEntry(body, http.StatusOK, c.config.CacheTTL)
		if err := c.cache.Set(ctx, key, entry); err != nil {
			c.logger.Warn().Err(err).Str("path", path).Msg("Failed to cache page")
		}
	}

	return page, nil
}

// do performs one GET and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("path", path).
		Str("query", query.Encode()).
		Msg("Executing F1 API request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	requestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		requestsTotal.WithLabelValues("network_error").Inc()
		c.logger.Error().Err(err).Str("path", path).Msg("HTTP request failed")
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	requestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errClass := classifyStatus(resp.StatusCode)
		errorsTotal.WithLabelValues(string(errClass)).Inc()
		// Drain so the connection can be reused.
		io.Copy(io.Discard, resp.Body)

		if errClass != ErrorClassRateLimit {
			c.logger.Error().
				Str("path", path).
				Int("status", resp.StatusCode).
				Str("error_class", string(errClass)).
				Msg("F1 API request error")
		}

		return nil, &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: errClass,
			Path:       path,
			Message:    resp.Status,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return body, nil
}

// classifyStatus categorizes a non-success HTTP status.
func classifyStatus(status int) ErrorClass {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case status >= 500:
		return ErrorClassServer
	default:
		return ErrorClassClient
	}
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
