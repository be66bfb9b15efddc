package ratelimit

import (
	"context"
	"time"
)

// Result describes the outcome of a rate limit check.
type Result struct {
	// Allowed indicates whether the attempt was admitted.
	Allowed bool

	// Limit is the maximum number of attempts allowed in the window.
	Limit int

	// Remaining is the number of attempts left in the current window.
	Remaining int

	// ResetAt is when the window has fully slid past the current attempt.
	ResetAt time.Time

	// now is the limiter's clock. RetryAfter must measure against the same
	// time source that produced ResetAt.
	now func() time.Time
}

// RetryAfter returns how long to wait before the next attempt may be
// admitted. Zero when the attempt was allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed {
		return 0
	}
	now := r.now
	if now == nil {
		now = time.Now
	}
	return r.ResetAt.Sub(now())
}

// Store is the timestamp storage backend for the sliding window.
type Store interface {
	// RecordIfAllowed atomically prunes timestamps older than the window,
	// checks the count against limit and records the new timestamp when
	// below it. Returns whether the attempt was admitted and the count of
	// timestamps in the window after the call.
	RecordIfAllowed(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (bool, int64, error)

	// CountInWindow returns the number of timestamps currently inside the
	// window.
	CountInWindow(ctx context.Context, key string, now time.Time, window time.Duration) (int64, error)

	// Reset removes all timestamps for the key.
	Reset(ctx context.Context, key string) error
}
