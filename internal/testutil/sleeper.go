package testutil

import (
	"context"
	"sync"
	"time"
)

// RecordingSleeper records requested waits without blocking.
type RecordingSleeper struct {
	mu    sync.Mutex
	calls []time.Duration
}

// Sleep records d and returns the context error, if any.
func (s *RecordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.calls = append(s.calls, d)
	s.mu.Unlock()
	return ctx.Err()
}

// Calls returns all recorded waits in order.
func (s *RecordingSleeper) Calls() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.calls...)
}

// Count returns how many waits of exactly d were recorded.
func (s *RecordingSleeper) Count(d time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, c := range s.calls {
		if c == d {
			n++
		}
	}
	return n
}
