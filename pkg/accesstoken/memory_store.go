package accesstoken

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store implementation for tests and
// single-process deployments.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*Token
	byHash map[string]int64
}

// NewMemoryStore creates an empty in-memory token store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[int64]*Token),
		byHash: make(map[string]int64),
	}
}

func (s *MemoryStore) Create(_ context.Context, token *Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byHash[token.TokenHash]; exists {
		return ErrDuplicateTokenHash
	}

	s.nextID++
	token.ID = s.nextID

	stored := cloneToken(token)
	s.byID[token.ID] = stored
	s.byHash[token.TokenHash] = token.ID

	return nil
}

func (s *MemoryStore) FindByHash(_ context.Context, hash string) (*Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byHash[hash]
	if !ok {
		return nil, nil
	}
	return cloneToken(s.byID[id]), nil
}

func (s *MemoryStore) FindByID(_ context.Context, id int64) (*Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	return cloneToken(t), nil
}

func (s *MemoryStore) Touch(_ context.Context, id int64, usedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.byID[id]
	if !ok {
		return ErrTokenNotFound
	}
	t.LastUsedAt = &usedAt
	return nil
}

func (s *MemoryStore) Revoke(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.byID[id]
	if !ok {
		return nil
	}
	delete(s.byHash, t.TokenHash)
	delete(s.byID, id)
	return nil
}

func (s *MemoryStore) RevokeAllForUser(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.byID {
		if t.UserID == userID {
			delete(s.byHash, t.TokenHash)
			delete(s.byID, id)
		}
	}
	return nil
}

func cloneToken(t *Token) *Token {
	if t == nil {
		return nil
	}
	out := *t
	out.Scopes = append([]string(nil), t.Scopes...)
	if t.LastUsedAt != nil {
		at := *t.LastUsedAt
		out.LastUsedAt = &at
	}
	return &out
}
