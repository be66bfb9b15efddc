package session

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// RedisStore loads and persists sessions in Redis. Each session is a JSON
// object stored under "session:<id>" with the configured TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithTTL overrides the default two hour session lifetime.
func WithTTL(ttl time.Duration) RedisStoreOption {
	return func(s *RedisStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewRedisStore creates a session store over the given client.
func NewRedisStore(client *redis.Client, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		client: client,
		ttl:    2 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches the session with the given id, or starts a fresh one when the
// id is empty or unknown. Mutations stay local until Save.
func (s *RedisStore) Load(ctx context.Context, id string) (*RedisSession, error) {
	sess := &RedisSession{
		store: s,
		id:    id,
		data:  make(map[string]any),
	}

	if id == "" {
		sess.id = newID()
		return sess, nil
	}

	raw, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err == redis.Nil {
		return sess, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := json.Unmarshal(raw, &sess.data); err != nil {
		// Corrupt payloads start the session over rather than failing
		// every request carrying the cookie.
		sess.data = make(map[string]any)
	}
	return sess, nil
}

// RedisSession is a Session whose data lives in Redis. Reads and writes work
// on a local copy; Save flushes the copy back and drops keys orphaned by
// Regenerate.
type RedisSession struct {
	store *RedisStore

	mu       sync.RWMutex
	id       string
	data     map[string]any
	orphaned []string
}

func (s *RedisSession) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

func (s *RedisSession) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *RedisSession) Put(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

func (s *RedisSession) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

func (s *RedisSession) Regenerate(destroy bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orphaned = append(s.orphaned, s.id)
	s.id = newID()
	if destroy {
		s.data = make(map[string]any)
	}
	return nil
}

// Save persists the session under its current id and deletes identifiers
// orphaned by Regenerate.
func (s *RedisSession) Save(ctx context.Context) error {
	s.mu.Lock()
	id := s.id
	payload, err := json.Marshal(s.data)
	orphaned := s.orphaned
	s.orphaned = nil
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncodingFailed, err)
	}

	for _, old := range orphaned {
		if err := s.store.client.Del(ctx, keyPrefix+old).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	if err := s.store.client.Set(ctx, keyPrefix+id, payload, s.store.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Snapshot returns a copy of the local session data, used by tests.
func (s *RedisSession) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.data))
	maps.Copy(out, s.data)
	return out
}
