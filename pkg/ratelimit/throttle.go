package ratelimit

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for request pacing.
var (
	rateLimitBackoffsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "f1_rate_limit_backoffs_total",
		Help: "Total number of backoff waits after HTTP 429 responses",
	})

	pageDelaysTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "f1_page_delays_total",
		Help: "Total number of politeness delays between page requests",
	})
)

// Sleeper blocks for a duration. Implementations return early with the
// context error when the context is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// ContextSleeper is the real Sleeper backed by a timer.
type ContextSleeper struct{}

// Sleep waits for d or until ctx is done.
func (ContextSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Throttle applies a Policy using a Sleeper.
type Throttle struct {
	policy  Policy
	sleeper Sleeper
	logger  zerolog.Logger
}

// NewThrottle creates a throttle. A nil sleeper means ContextSleeper.
func NewThrottle(policy Policy, sleeper Sleeper, logger zerolog.Logger) *Throttle {
	if sleeper == nil {
		sleeper = ContextSleeper{}
	}
	return &Throttle{
		policy:  policy,
		sleeper: sleeper,
		logger:  logger,
	}
}

// Policy returns the policy in effect.
func (t *Throttle) Policy() Policy {
	return t.policy
}

// Backoff waits the fixed rate-limit backoff before retrying path.
// attempt is the 1-based number of the retry about to happen.
func (t *Throttle) Backoff(ctx context.Context, path string, attempt int) error {
	rateLimitBackoffsTotal.Inc()

	t.logger.Warn().
		Str("path", path).
		Int("attempt", attempt).
		Dur("backoff", t.policy.Backoff).
		Msg("Rate limited, backing off")

	return t.sleeper.Sleep(ctx, t.policy.Backoff)
}

// BetweenPages waits the politeness delay before requesting the page at offset.
func (t *Throttle) BetweenPages(ctx context.Context, path string, offset int) error {
	pageDelaysTotal.Inc()

	t.logger.Debug().
		Str("path", path).
		Int("offset", offset).
		Dur("delay", t.policy.PageDelay).
		Msg("Pausing before next page")

	return t.sleeper.Sleep(ctx, t.policy.PageDelay)
}
