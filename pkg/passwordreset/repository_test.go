package passwordreset_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardkit/guardkit/pkg/hasher"
	"github.com/guardkit/guardkit/pkg/passwordreset"
	"github.com/guardkit/guardkit/pkg/user"
)

const testAppKey = "0123456789abcdef0123456789abcdef"

var testHasher = hasher.NewBcrypt(4)

func TestMemoryRepositoryRequiresAppKey(t *testing.T) {
	t.Parallel()

	_, err := passwordreset.NewMemoryRepository("", testHasher)
	require.ErrorIs(t, err, passwordreset.ErrAppKeyRequired)
}

func TestMemoryRepositoryCreateAndExists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo, err := passwordreset.NewMemoryRepository(testAppKey, testHasher)
	require.NoError(t, err)

	u := &user.User{ID: 7, Email: "jane@example.com"}

	token, err := repo.Create(ctx, u)
	require.NoError(t, err)
	assert.Len(t, token, 64, "raw token is 32 hex-encoded HMAC bytes")

	ok, err := repo.Exists(ctx, u, token)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(ctx, u, "wrong-token")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Exists(ctx, &user.User{Email: "other@example.com"}, token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryRepositoryCreateReplacesPendingToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo, err := passwordreset.NewMemoryRepository(testAppKey, testHasher, passwordreset.WithThrottle(0))
	require.NoError(t, err)

	u := &user.User{Email: "jane@example.com"}

	first, err := repo.Create(ctx, u)
	require.NoError(t, err)
	second, err := repo.Create(ctx, u)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	ok, err := repo.Exists(ctx, u, first)
	require.NoError(t, err)
	assert.False(t, ok, "a new token invalidates the previous one")

	ok, err = repo.Exists(ctx, u, second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryRepositoryExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	repo, err := passwordreset.NewMemoryRepository(testAppKey, testHasher,
		passwordreset.WithExpiry(time.Hour),
		passwordreset.WithRepositoryClock(clock),
	)
	require.NoError(t, err)

	u := &user.User{Email: "jane@example.com"}
	token, err := repo.Create(ctx, u)
	require.NoError(t, err)

	now = now.Add(59 * time.Minute)
	ok, err := repo.Exists(ctx, u, token)
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	ok, err = repo.Exists(ctx, u, token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryRepositoryThrottle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	repo, err := passwordreset.NewMemoryRepository(testAppKey, testHasher,
		passwordreset.WithThrottle(time.Minute),
		passwordreset.WithRepositoryClock(clock),
	)
	require.NoError(t, err)

	u := &user.User{Email: "jane@example.com"}

	recent, err := repo.RecentlyCreated(ctx, u)
	require.NoError(t, err)
	assert.False(t, recent)

	_, err = repo.Create(ctx, u)
	require.NoError(t, err)

	recent, err = repo.RecentlyCreated(ctx, u)
	require.NoError(t, err)
	assert.True(t, recent)

	now = now.Add(2 * time.Minute)
	recent, err = repo.RecentlyCreated(ctx, u)
	require.NoError(t, err)
	assert.False(t, recent)
}

func TestMemoryRepositoryDestroy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo, err := passwordreset.NewMemoryRepository(testAppKey, testHasher)
	require.NoError(t, err)

	u := &user.User{Email: "jane@example.com"}
	token, err := repo.Create(ctx, u)
	require.NoError(t, err)

	require.NoError(t, repo.Destroy(ctx, u))

	ok, err := repo.Exists(ctx, u, token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryRepositoryDestroyExpired(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	repo, err := passwordreset.NewMemoryRepository(testAppKey, testHasher,
		passwordreset.WithExpiry(time.Hour),
		passwordreset.WithRepositoryClock(clock),
	)
	require.NoError(t, err)

	old := &user.User{Email: "old@example.com"}
	oldToken, err := repo.Create(ctx, old)
	require.NoError(t, err)

	now = now.Add(90 * time.Minute)
	fresh := &user.User{Email: "fresh@example.com"}
	freshToken, err := repo.Create(ctx, fresh)
	require.NoError(t, err)

	require.NoError(t, repo.DestroyExpired(ctx))

	ok, err := repo.Exists(ctx, old, oldToken)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Exists(ctx, fresh, freshToken)
	require.NoError(t, err)
	assert.True(t, ok)
}
