package provider_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardkit/guardkit/pkg/accesstoken"
	"github.com/guardkit/guardkit/pkg/hasher"
	"github.com/guardkit/guardkit/pkg/provider"
	"github.com/guardkit/guardkit/pkg/user"
)

var testHasher = hasher.NewBcrypt(4)

// spyStore counts store accesses to prove certain paths never query.
type spyStore struct {
	provider.UserStore
	findCalls   int
	findByCalls int
}

func (s *spyStore) Find(ctx context.Context, id int64) (*user.User, error) {
	s.findCalls++
	return s.UserStore.Find(ctx, id)
}

func (s *spyStore) FindBy(ctx context.Context, filters map[string]any) (*user.User, error) {
	s.findByCalls++
	return s.UserStore.FindBy(ctx, filters)
}

func seedUser(t *testing.T, store *provider.MemoryUserStore, email, password string) *user.User {
	t.Helper()
	hash, err := testHasher.Make(password)
	require.NoError(t, err)
	return store.Add(&user.User{
		Email:        email,
		Username:     email[:len(email)-len("@example.com")],
		PasswordHash: hash,
	})
}

func TestFindByCredentials(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := provider.NewMemoryUserStore()
	u := seedUser(t, store, "jane@example.com", "secret")
	p := provider.NewStoreProvider(store, testHasher)

	found, err := p.FindByCredentials(ctx, provider.Credentials{
		"email":    "jane@example.com",
		"password": "secret",
	})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, u.ID, found.ID)

	missing, err := p.FindByCredentials(ctx, provider.Credentials{
		"email": "nobody@example.com",
	})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFindByCredentialsPasswordOnlyIssuesNoQuery(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := provider.NewMemoryUserStore()
	seedUser(t, store, "jane@example.com", "secret")
	spy := &spyStore{UserStore: store}
	p := provider.NewStoreProvider(spy, testHasher)

	for _, creds := range []provider.Credentials{
		{"password": "secret"},
		{"password": "secret", "password_confirmation": "secret"},
		{},
	} {
		found, err := p.FindByCredentials(ctx, creds)
		require.NoError(t, err)
		assert.Nil(t, found)
	}

	assert.Zero(t, spy.findByCalls, "password-only credentials must not query the store")
	assert.Zero(t, spy.findCalls)
}

func TestFindByCredentialsStripsPasswordKeysFromFilters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := provider.NewMemoryUserStore()
	u := seedUser(t, store, "jane@example.com", "secret")
	p := provider.NewStoreProvider(store, testHasher)

	// The wrong password must not affect the lookup; only verification
	// uses it.
	found, err := p.FindByCredentials(ctx, provider.Credentials{
		"email":    "jane@example.com",
		"password": "totally-wrong",
	})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, u.ID, found.ID)
}

func TestFindByCredentialsInFilter(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := provider.NewMemoryUserStore()
	u := seedUser(t, store, "jane@example.com", "secret")
	p := provider.NewStoreProvider(store, testHasher)

	found, err := p.FindByCredentials(ctx, provider.Credentials{
		"email": []string{"other@example.com", "jane@example.com"},
	})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, u.ID, found.ID)
}

func TestFindByCredentialsTokenPath(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := provider.NewMemoryUserStore()
	u := seedUser(t, store, "jane@example.com", "secret")

	tokens := accesstoken.NewMemoryStore()
	issuer := accesstoken.NewIssuer(tokens)
	nt, err := issuer.Generate(ctx, u.ID, "api", "post:read")
	require.NoError(t, err)

	p := provider.NewStoreProvider(store, testHasher, provider.WithAccessTokens(tokens))

	found, err := p.FindByCredentials(ctx, provider.Credentials{"token": nt.PlainText})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, u.ID, found.ID)
	require.NotNil(t, found.CurrentAccessToken())
	assert.True(t, found.TokenCan("post:read"))

	// Unknown token resolves to nobody.
	none, err := p.FindByCredentials(ctx, provider.Credentials{"token": "bogus"})
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestFindByCredentialsTokenPathWithoutTokenStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	p := provider.NewStoreProvider(provider.NewMemoryUserStore(), testHasher)

	found, err := p.FindByCredentials(ctx, provider.Credentials{"token": "anything"})
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestFindByID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := provider.NewMemoryUserStore()
	u := seedUser(t, store, "jane@example.com", "secret")
	p := provider.NewStoreProvider(store, testHasher)

	found, err := p.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, u.Email, found.Email)

	missing, err := p.FindByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFindByIDExcludesSoftDeleted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := provider.NewMemoryUserStore()
	u := seedUser(t, store, "jane@example.com", "secret")

	u.MarkEmailAsVerified()
	deletedAt := *u.EmailVerifiedAt
	u.DeletedAt = &deletedAt
	require.NoError(t, store.Save(ctx, u))

	p := provider.NewStoreProvider(store, testHasher)

	found, err := p.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	byCreds, err := p.FindByCredentials(ctx, provider.Credentials{"email": u.Email})
	require.NoError(t, err)
	assert.Nil(t, byCreds)
}

func TestFindByRememberToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := provider.NewMemoryUserStore()
	u := seedUser(t, store, "jane@example.com", "secret")
	p := provider.NewStoreProvider(store, testHasher)

	require.NoError(t, p.UpdateRememberToken(ctx, u, "remember-me-token"))

	found, err := p.FindByRememberToken(ctx, u.ID, "remember-me-token")
	require.NoError(t, err)
	require.NotNil(t, found)

	mismatch, err := p.FindByRememberToken(ctx, u.ID, "stolen-token")
	require.NoError(t, err)
	assert.Nil(t, mismatch)

	empty, err := p.FindByRememberToken(ctx, u.ID, "")
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestValidateCredentials(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := provider.NewMemoryUserStore()
	u := seedUser(t, store, "jane@example.com", "secret")
	p := provider.NewStoreProvider(store, testHasher)

	ok, err := p.ValidateCredentials(ctx, u, provider.Credentials{"password": "secret"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.ValidateCredentials(ctx, u, provider.Credentials{"password": "wrong"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = p.ValidateCredentials(ctx, u, provider.Credentials{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRehashPasswordIfRequired(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := provider.NewMemoryUserStore()

	// Hash stored at a lower cost than the provider's hasher wants.
	oldHash, err := hasher.NewBcrypt(4).Make("secret")
	require.NoError(t, err)
	u := store.Add(&user.User{Email: "jane@example.com", PasswordHash: oldHash})

	strict := hasher.NewBcrypt(6)
	p := provider.NewStoreProvider(store, strict)

	require.NoError(t, p.RehashPasswordIfRequired(ctx, u, provider.Credentials{"password": "secret"}))
	assert.NotEqual(t, oldHash, u.PasswordHash)

	// The persisted record carries the new hash and still verifies.
	persisted, err := store.Find(ctx, u.ID)
	require.NoError(t, err)
	ok, err := strict.Check("secret", persisted.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, strict.NeedsRehash(persisted.PasswordHash))
}

func TestRehashSkippedWhenUpToDate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := provider.NewMemoryUserStore()
	u := seedUser(t, store, "jane@example.com", "secret")
	before := u.PasswordHash

	p := provider.NewStoreProvider(store, testHasher)
	require.NoError(t, p.RehashPasswordIfRequired(ctx, u, provider.Credentials{"password": "secret"}))
	assert.Equal(t, before, u.PasswordHash)
}

func TestUpdateRememberTokenClears(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := provider.NewMemoryUserStore()
	u := seedUser(t, store, "jane@example.com", "secret")
	p := provider.NewStoreProvider(store, testHasher)

	require.NoError(t, p.UpdateRememberToken(ctx, u, "tok"))
	require.NoError(t, p.UpdateRememberToken(ctx, u, ""))

	persisted, err := store.Find(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, persisted.GetRememberToken())
}
