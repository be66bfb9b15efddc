package guard_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardkit/guardkit/pkg/accesstoken"
	"github.com/guardkit/guardkit/pkg/guard"
	"github.com/guardkit/guardkit/pkg/provider"
	"github.com/guardkit/guardkit/pkg/user"
)

type tokenFixture struct {
	store  *provider.MemoryUserStore
	tokens *accesstoken.MemoryStore
	issuer *accesstoken.Issuer
	users  provider.UserProvider
}

func newTokenFixture(t *testing.T) *tokenFixture {
	t.Helper()

	f := &tokenFixture{
		store:  provider.NewMemoryUserStore(),
		tokens: accesstoken.NewMemoryStore(),
	}
	f.issuer = accesstoken.NewIssuer(f.tokens)
	f.users = provider.NewStoreProvider(f.store, testHasher,
		provider.WithAccessTokens(f.tokens))
	return f
}

func (f *tokenFixture) seedUserWithToken(t *testing.T, scopes ...string) (*user.User, *accesstoken.NewToken) {
	t.Helper()

	u := f.store.Add(&user.User{Email: "jane@example.com"})
	nt, err := f.issuer.Generate(context.Background(), u.ID, "api", scopes...)
	require.NoError(t, err)
	return u, nt
}

func TestTokenGuardResolvesBearer(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newTokenFixture(t)
	u, nt := f.seedUserWithToken(t, "post:read")

	g := guard.NewTokenGuard("api", f.users, "Bearer "+nt.PlainText)

	require.True(t, g.Check(ctx))
	got, err := g.User(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	id, ok := g.ID(ctx)
	require.True(t, ok)
	assert.Equal(t, u.ID, id)

	// The matched token is bound for scope checks.
	require.NotNil(t, got.CurrentAccessToken())
	assert.True(t, got.TokenCan("post:read"))
	assert.True(t, got.TokenCant("post:write"))
}

func TestTokenGuardUnknownToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newTokenFixture(t)
	f.seedUserWithToken(t)

	g := guard.NewTokenGuard("api", f.users, "Bearer forged")
	assert.True(t, g.Guest(ctx))

	got, err := g.User(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTokenGuardEmptyToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newTokenFixture(t)

	g := guard.NewTokenGuard("api", f.users, "")
	assert.True(t, g.Guest(ctx))
	_, ok := g.ID(ctx)
	assert.False(t, ok)
}

func TestTokenGuardValidate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newTokenFixture(t)
	_, nt := f.seedUserWithToken(t)

	g := guard.NewTokenGuard("api", f.users, "")

	ok, err := g.Validate(ctx, provider.Credentials{"token": nt.PlainText})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.Validate(ctx, provider.Credentials{"token": "forged"})
	require.NoError(t, err)
	assert.False(t, ok)
}
