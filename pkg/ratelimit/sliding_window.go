package ratelimit

import (
	"context"
	"time"
)

// SlidingWindow admits at most limit attempts per key within a moving time
// window, tracking individual attempt timestamps in a Store.
type SlidingWindow struct {
	store  Store
	limit  int
	window time.Duration
	now    func() time.Time
}

// SlidingWindowOption configures a SlidingWindow.
type SlidingWindowOption func(*SlidingWindow)

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) SlidingWindowOption {
	return func(sw *SlidingWindow) {
		if now != nil {
			sw.now = now
		}
	}
}

// NewSlidingWindow creates a limiter admitting limit attempts per window.
func NewSlidingWindow(store Store, limit int, window time.Duration, opts ...SlidingWindowOption) (*SlidingWindow, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if window <= 0 {
		return nil, ErrInvalidWindow
	}

	sw := &SlidingWindow{
		store:  store,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(sw)
	}
	return sw, nil
}

// Allow records an attempt for the key when capacity remains and reports the
// outcome.
func (sw *SlidingWindow) Allow(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	now := sw.now()
	allowed, count, err := sw.store.RecordIfAllowed(ctx, key, now, sw.window, sw.limit)
	if err != nil {
		return nil, err
	}

	return &Result{
		Allowed:   allowed,
		Limit:     sw.limit,
		Remaining: max(0, sw.limit-int(count)),
		ResetAt:   now.Add(sw.window),
		now:       sw.now,
	}, nil
}

// Status reports the current state without recording an attempt.
func (sw *SlidingWindow) Status(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	now := sw.now()
	count, err := sw.store.CountInWindow(ctx, key, now, sw.window)
	if err != nil {
		return nil, err
	}

	remaining := max(0, sw.limit-int(count))
	return &Result{
		Allowed:   remaining > 0,
		Limit:     sw.limit,
		Remaining: remaining,
		ResetAt:   now.Add(sw.window),
		now:       sw.now,
	}, nil
}

// Reset clears all recorded attempts for the key, typically after a
// successful login.
func (sw *SlidingWindow) Reset(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	return sw.store.Reset(ctx, key)
}
