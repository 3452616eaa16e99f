// Package ratelimit implements the fixed rate-limit backoff and the politeness
// delay between page requests used against the F1 statistics API.
package ratelimit

import (
	"fmt"
	"time"
)

// Defaults for the F1 API.
const (
	// DefaultBackoff is the wait after an HTTP 429 before the same request is retried.
	DefaultBackoff = 2 * time.Second

	// DefaultPageDelay is the wait before every page request after the first one.
	DefaultPageDelay = 250 * time.Millisecond

	// Unbounded disables the retry cap for rate-limited requests.
	Unbounded = 0
)

// Policy describes how rate-limited and paginated requests are paced.
type Policy struct {
	// Backoff is the fixed wait after a 429 response. It does not grow.
	Backoff time.Duration `yaml:"backoff"`

	// PageDelay is the wait before each non-first page request.
	// It never applies to the first request or to 429 retries.
	PageDelay time.Duration `yaml:"page_delay"`

	// MaxRetries caps the number of 429 retries for a single request.
	// Unbounded (0) retries until the API answers with something else.
	MaxRetries int `yaml:"max_retries"`
}

// DefaultPolicy returns the policy the F1 API expects.
func DefaultPolicy() Policy {
	return Policy{
		Backoff:    DefaultBackoff,
		PageDelay:  DefaultPageDelay,
		MaxRetries: Unbounded,
	}
}

// Validate checks the policy for negative values.
func (p Policy) Validate() error {
	if p.Backoff < 0 {
		return fmt.Errorf("backoff must be >= 0 (got %s)", p.Backoff)
	}
	if p.PageDelay < 0 {
		return fmt.Errorf("page_delay must be >= 0 (got %s)", p.PageDelay)
	}
	if p.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0 (got %d)", p.MaxRetries)
	}
	return nil
}

// IsBounded reports whether 429 retries are capped.
func (p Policy) IsBounded() bool {
	return p.MaxRetries > Unbounded
}

// Exhausted reports whether another retry is forbidden after the given
// number of retries already performed.
func (p Policy) Exhausted(retries int) bool {
	return p.IsBounded() && retries >= p.MaxRetries
}
