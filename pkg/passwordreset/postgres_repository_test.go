package passwordreset_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardkit/guardkit/pkg/passwordreset"
	"github.com/guardkit/guardkit/pkg/user"
)

func newMockRepo(t *testing.T, opts ...passwordreset.RepositoryOption) (*passwordreset.PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	repo, err := passwordreset.NewPostgresRepository(mock, testAppKey, testHasher, opts...)
	require.NoError(t, err)
	return repo, mock
}

func TestPostgresRepositoryCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo, mock := newMockRepo(t)
	u := &user.User{Email: "jane@example.com"}

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM password_reset_tokens WHERE email = $1`)).
		WithArgs("jane@example.com").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO password_reset_tokens (email, token, created_at) VALUES ($1, $2, $3)`)).
		WithArgs("jane@example.com", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	token, err := repo.Create(ctx, u)
	require.NoError(t, err)
	assert.Len(t, token, 64)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryExists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo, mock := newMockRepo(t)
	u := &user.User{Email: "jane@example.com"}

	// Seed a known hash so the stored row can be replayed.
	raw := "deadbeef"
	hash, err := testHasher.Make(raw)
	require.NoError(t, err)

	query := regexp.QuoteMeta(`SELECT email, token, created_at FROM password_reset_tokens WHERE email = $1`)

	mock.ExpectQuery(query).
		WithArgs("jane@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"email", "token", "created_at"}).
			AddRow("jane@example.com", hash, time.Now().UTC()))

	ok, err := repo.Exists(ctx, u, raw)
	require.NoError(t, err)
	assert.True(t, ok)

	// Expired rows never match, even with the right token.
	mock.ExpectQuery(query).
		WithArgs("jane@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"email", "token", "created_at"}).
			AddRow("jane@example.com", hash, time.Now().UTC().Add(-2*time.Hour)))

	ok, err = repo.Exists(ctx, u, raw)
	require.NoError(t, err)
	assert.False(t, ok)

	// Missing rows are a plain miss.
	mock.ExpectQuery(query).
		WithArgs("jane@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"email", "token", "created_at"}))

	ok, err = repo.Exists(ctx, u, raw)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryRecentlyCreated(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo, mock := newMockRepo(t, passwordreset.WithThrottle(time.Minute))
	u := &user.User{Email: "jane@example.com"}

	query := regexp.QuoteMeta(`SELECT email, token, created_at FROM password_reset_tokens WHERE email = $1`)

	mock.ExpectQuery(query).
		WithArgs("jane@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"email", "token", "created_at"}).
			AddRow("jane@example.com", "hash", time.Now().UTC()))

	recent, err := repo.RecentlyCreated(ctx, u)
	require.NoError(t, err)
	assert.True(t, recent)

	mock.ExpectQuery(query).
		WithArgs("jane@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"email", "token", "created_at"}).
			AddRow("jane@example.com", "hash", time.Now().UTC().Add(-5*time.Minute)))

	recent, err = repo.RecentlyCreated(ctx, u)
	require.NoError(t, err)
	assert.False(t, recent)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryDestroy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM password_reset_tokens WHERE email = $1`)).
		WithArgs("jane@example.com").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.Destroy(ctx, &user.User{Email: "jane@example.com"}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryDestroyExpired(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM password_reset_tokens WHERE created_at <= $1`)).
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	require.NoError(t, repo.DestroyExpired(ctx))
	require.NoError(t, mock.ExpectationsWereMet())
}
