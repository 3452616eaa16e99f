package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sternrassler/f1-etl/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for retry operations.
var (
	retriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "f1_retries_total",
		Help: "Total number of retried requests after rate limiting",
	})

	retryExhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "f1_retry_exhausted_total",
		Help: "Total number of times the rate-limit retry cap was reached",
	})
)

// retryRateLimited calls fn until it returns anything but a retryable error.
// Each retry waits the throttle's fixed backoff. With an unbounded policy it
// never gives up on rate limiting.
func retryRateLimited(ctx context.Context, throttle *ratelimit.Throttle, logger zerolog.Logger, path string, fn func() error) error {
	retries := 0
	for {
		err := fn()
		if err == nil {
			if retries > 0 {
				logger.Info().
					Str("path", path).
					Int("retries", retries).
					Msg("Request succeeded after retry")
			}
			return nil
		}

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !shouldRetry(apiErr.ErrorClass) {
			return err
		}

		if throttle.Policy().Exhausted(retries) {
			retryExhaustedTotal.Inc()
			logger.Error().
				Str("path", path).
				Int("max_retries", throttle.Policy().MaxRetries).
				Msg("Retry attempts exhausted")
			return fmt.Errorf("%w after %d retries: %v", ErrRetryExhausted, retries, err)
		}

		retries++
		retriesTotal.Inc()

		if err := throttle.Backoff(ctx, path, retries); err != nil {
			logger.Warn().
				Str("path", path).
				Int("attempt", retries).
				Msg("Context cancelled during retry backoff")
			return fmt.Errorf("%w: %v", ErrContextCancelled, err)
		}
	}
}
