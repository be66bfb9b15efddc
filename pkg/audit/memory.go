package audit

import (
	"context"
	"sync"
)

// MemoryRecorder keeps attempts in memory, used by tests.
type MemoryRecorder struct {
	mu       sync.RWMutex
	attempts []LoginAttempt
}

// NewMemoryRecorder creates an empty in-memory recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

func (r *MemoryRecorder) Record(_ context.Context, attempt LoginAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, Prepare(attempt))
	return nil
}

// Attempts returns a copy of everything recorded so far.
func (r *MemoryRecorder) Attempts() []LoginAttempt {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]LoginAttempt, len(r.attempts))
	copy(out, r.attempts)
	return out
}
