package session

import (
	"maps"
	"sync"
)

// MemorySession keeps session data in process memory. Useful for tests and
// single-process deployments.
type MemorySession struct {
	mu   sync.RWMutex
	id   string
	data map[string]any
}

// NewMemorySession creates an empty session with a fresh identifier.
func NewMemorySession() *MemorySession {
	return &MemorySession{
		id:   newID(),
		data: make(map[string]any),
	}
}

func (s *MemorySession) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

func (s *MemorySession) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *MemorySession) Put(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

func (s *MemorySession) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

func (s *MemorySession) Regenerate(destroy bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.id = newID()
	if destroy {
		s.data = make(map[string]any)
	}
	return nil
}

// Snapshot returns a copy of the session data, used by tests.
func (s *MemorySession) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.data))
	maps.Copy(out, s.data)
	return out
}
