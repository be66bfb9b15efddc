package passwordreset

import (
	"context"
	"fmt"
	"sync"

	"github.com/guardkit/guardkit/pkg/hasher"
	"github.com/guardkit/guardkit/pkg/user"
)

// MemoryRepository keeps pending tokens in process memory, used by tests.
type MemoryRepository struct {
	mu      sync.Mutex
	records map[string]record
	cfg     repoConfig
}

// NewMemoryRepository creates an empty repository keyed by the application
// secret.
func NewMemoryRepository(appKey string, h hasher.Hasher, opts ...RepositoryOption) (*MemoryRepository, error) {
	cfg, err := newRepoConfig(appKey, h, opts)
	if err != nil {
		return nil, err
	}
	return &MemoryRepository{
		records: make(map[string]record),
		cfg:     cfg,
	}, nil
}

func (r *MemoryRepository) Create(_ context.Context, u *user.User) (string, error) {
	token, err := generateToken(r.cfg.appKey)
	if err != nil {
		return "", err
	}

	hash, err := r.cfg.hasher.Make(token)
	if err != nil {
		return "", fmt.Errorf("passwordreset: hash token: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, u.Email)
	r.records[u.Email] = record{
		email:     u.Email,
		tokenHash: hash,
		createdAt: r.cfg.now(),
	}
	return token, nil
}

func (r *MemoryRepository) Exists(_ context.Context, u *user.User, token string) (bool, error) {
	r.mu.Lock()
	rec, ok := r.records[u.Email]
	r.mu.Unlock()

	if !ok || rec.expired(r.cfg.expires, r.cfg.now()) {
		return false, nil
	}

	match, err := r.cfg.hasher.Check(token, rec.tokenHash)
	if err != nil {
		return false, fmt.Errorf("passwordreset: check token: %w", err)
	}
	return match, nil
}

func (r *MemoryRepository) RecentlyCreated(_ context.Context, u *user.User) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[u.Email]
	if !ok {
		return false, nil
	}
	return rec.recentlyCreated(r.cfg.throttle, r.cfg.now()), nil
}

func (r *MemoryRepository) Destroy(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, u.Email)
	return nil
}

func (r *MemoryRepository) DestroyExpired(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.cfg.now()
	for email, rec := range r.records {
		if rec.expired(r.cfg.expires, now) {
			delete(r.records, email)
		}
	}
	return nil
}
