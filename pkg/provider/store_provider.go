package provider

import (
	"context"
	"fmt"

	"github.com/guardkit/guardkit/pkg/accesstoken"
	"github.com/guardkit/guardkit/pkg/hasher"
	"github.com/guardkit/guardkit/pkg/user"
)

// UserStore abstracts the persistence layer behind the "model" provider
// driver. Lookup misses are (nil, nil).
type UserStore interface {
	// Find returns the user with the given id.
	Find(ctx context.Context, id int64) (*user.User, error)

	// FindBy returns the first user matching all filters. Slice values
	// match when any element matches (IN semantics).
	FindBy(ctx context.Context, filters map[string]any) (*user.User, error)

	// Save persists changes to an existing user record.
	Save(ctx context.Context, u *user.User) error
}

// StoreProvider implements UserProvider over a UserStore ("model" driver).
type StoreProvider struct {
	store  UserStore
	hasher hasher.Hasher
	tokens accesstoken.Store
}

// StoreProviderOption configures a StoreProvider.
type StoreProviderOption func(*StoreProvider)

// WithAccessTokens enables the token-search path for credentials carrying a
// "token" key.
func WithAccessTokens(tokens accesstoken.Store) StoreProviderOption {
	return func(p *StoreProvider) {
		p.tokens = tokens
	}
}

// NewStoreProvider creates a provider over the given store and hasher.
func NewStoreProvider(store UserStore, h hasher.Hasher, opts ...StoreProviderOption) *StoreProvider {
	p := &StoreProvider{store: store, hasher: h}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *StoreProvider) FindByID(ctx context.Context, id int64) (*user.User, error) {
	u, err := p.store.Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("provider: find by id: %w", err)
	}
	if u == nil || u.IsDeleted() {
		return nil, nil
	}
	return u, nil
}

func (p *StoreProvider) FindByCredentials(ctx context.Context, creds Credentials) (*user.User, error) {
	if raw, ok := creds[TokenKey].(string); ok {
		return resolveByToken(ctx, p.tokens, p.FindByID, raw)
	}

	filters := creds.Identifying()
	if len(filters) == 0 {
		// Password-only credentials cannot identify anyone; no store access.
		return nil, nil
	}

	u, err := p.store.FindBy(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("provider: find by credentials: %w", err)
	}
	if u == nil || u.IsDeleted() {
		return nil, nil
	}
	return u, nil
}

func (p *StoreProvider) FindByRememberToken(ctx context.Context, id int64, token string) (*user.User, error) {
	u, err := p.FindByID(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}

	stored := u.GetRememberToken()
	if stored == "" || token == "" || !constantTimeEquals(stored, token) {
		return nil, nil
	}
	return u, nil
}

func (p *StoreProvider) ValidateCredentials(_ context.Context, u *user.User, creds Credentials) (bool, error) {
	return validatePassword(p.hasher, u, creds)
}

func (p *StoreProvider) RehashPasswordIfRequired(ctx context.Context, u *user.User, creds Credentials) error {
	if !p.hasher.NeedsRehash(u.AuthPasswordHash()) {
		return nil
	}

	password, ok := creds.Password()
	if !ok {
		return nil
	}

	rehashed, err := p.hasher.Make(password)
	if err != nil {
		return fmt.Errorf("provider: rehash: %w", err)
	}

	u.PasswordHash = rehashed
	return p.store.Save(ctx, u)
}

func (p *StoreProvider) UpdateRememberToken(ctx context.Context, u *user.User, token string) error {
	u.SetRememberToken(token)
	return p.store.Save(ctx, u)
}
