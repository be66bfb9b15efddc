package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps attempt timestamps in process memory. Suitable for tests
// and single-process deployments.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string][]time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]time.Time)}
}

func (s *MemoryStore) RecordIfAllowed(_ context.Context, key string, now time.Time, window time.Duration, limit int) (bool, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := prune(s.entries[key], now.Add(-window))
	if len(kept) >= limit {
		s.entries[key] = kept
		return false, int64(len(kept)), nil
	}

	kept = append(kept, now)
	s.entries[key] = kept
	return true, int64(len(kept)), nil
}

func (s *MemoryStore) CountInWindow(_ context.Context, key string, now time.Time, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := prune(s.entries[key], now.Add(-window))
	if len(kept) == 0 {
		delete(s.entries, key)
	} else {
		s.entries[key] = kept
	}
	return int64(len(kept)), nil
}

func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func prune(timestamps []time.Time, cutoff time.Time) []time.Time {
	kept := timestamps[:0]
	for _, ts := range timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	return kept
}
