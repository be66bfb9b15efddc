package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/guardkit/guardkit/pkg/user"
)

// MemoryUserStore is an in-memory UserStore for tests and single-process
// deployments. Filterable fields: id, email, username.
type MemoryUserStore struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]*user.User
}

// NewMemoryUserStore creates an empty in-memory user store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[int64]*user.User)}
}

// Add inserts a user, assigning an id when it has none. Intended for test
// and bootstrap seeding.
func (s *MemoryUserStore) Add(u *user.User) *user.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == 0 {
		s.nextID++
		u.ID = s.nextID
	} else if u.ID > s.nextID {
		s.nextID = u.ID
	}

	stored := *u
	s.users[u.ID] = &stored
	return u
}

func (s *MemoryUserStore) Find(_ context.Context, id int64) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (s *MemoryUserStore) FindBy(_ context.Context, filters map[string]any) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		ok, err := matchesAll(u, filters)
		if err != nil {
			return nil, err
		}
		if ok {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (s *MemoryUserStore) Save(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return fmt.Errorf("memory user store: unknown user %d", u.ID)
	}
	stored := *u
	s.users[u.ID] = &stored
	return nil
}

func matchesAll(u *user.User, filters map[string]any) (bool, error) {
	for key, value := range filters {
		ok, err := matchesField(u, key, value)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func matchesField(u *user.User, key string, value any) (bool, error) {
	var field any
	switch key {
	case "id":
		field = u.ID
	case "email":
		field = u.Email
	case "username":
		field = u.Username
	default:
		return false, fmt.Errorf("%w: %q", ErrUnsupportedCredentialKey, key)
	}

	// Slice values carry IN semantics: any element may match.
	switch vs := value.(type) {
	case []string:
		for _, v := range vs {
			if field == v {
				return true, nil
			}
		}
		return false, nil
	case []any:
		for _, v := range vs {
			if field == v {
				return true, nil
			}
		}
		return false, nil
	default:
		return field == value, nil
	}
}
