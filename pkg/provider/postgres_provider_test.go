package provider_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardkit/guardkit/pkg/provider"
	"github.com/guardkit/guardkit/pkg/user"
)

const selectUsers = `SELECT id, email, username, password_hash, remember_token, email_verified_at, created_at, updated_at, deleted_at FROM users`

var userRowColumns = []string{
	"id", "email", "username", "password_hash", "remember_token",
	"email_verified_at", "created_at", "updated_at", "deleted_at",
}

func userRow(id int64, email, username, passwordHash, rememberToken string) *pgxmock.Rows {
	now := time.Now().UTC()
	return pgxmock.NewRows(userRowColumns).
		AddRow(id, email, username, passwordHash, rememberToken, (*time.Time)(nil), now, now, (*time.Time)(nil))
}

func newMockProvider(t *testing.T, opts ...provider.PostgresProviderOption) (*provider.PostgresProvider, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return provider.NewPostgresProvider(mock, testHasher, opts...), mock
}

func TestPostgresFindByID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	p, mock := newMockProvider(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectUsers+` WHERE id = $1 AND deleted_at IS NULL`)).
		WithArgs(int64(7)).
		WillReturnRows(userRow(7, "jane@example.com", "jane", "hash", ""))

	u, err := p.FindByID(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, "jane@example.com", u.Email)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByIDNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	p, mock := newMockProvider(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectUsers+` WHERE id = $1 AND deleted_at IS NULL`)).
		WithArgs(int64(404)).
		WillReturnRows(pgxmock.NewRows(userRowColumns))

	u, err := p.FindByID(ctx, 404)
	require.NoError(t, err)
	assert.Nil(t, u)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByCredentials(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	p, mock := newMockProvider(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectUsers+` WHERE deleted_at IS NULL AND email = $1`)).
		WithArgs("jane@example.com").
		WillReturnRows(userRow(7, "jane@example.com", "jane", "hash", ""))

	u, err := p.FindByCredentials(ctx, provider.Credentials{
		"email":    "jane@example.com",
		"password": "ignored-for-lookup",
	})
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, int64(7), u.ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByCredentialsSortsFilterKeys(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	p, mock := newMockProvider(t)

	// Keys appear alphabetically regardless of map iteration order.
	mock.ExpectQuery(regexp.QuoteMeta(selectUsers+` WHERE deleted_at IS NULL AND email = $1 AND username = $2`)).
		WithArgs("jane@example.com", "jane").
		WillReturnRows(userRow(7, "jane@example.com", "jane", "hash", ""))

	u, err := p.FindByCredentials(ctx, provider.Credentials{
		"username": "jane",
		"email":    "jane@example.com",
	})
	require.NoError(t, err)
	require.NotNil(t, u)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByCredentialsSliceUsesAny(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	p, mock := newMockProvider(t)

	emails := []string{"a@example.com", "jane@example.com"}
	mock.ExpectQuery(regexp.QuoteMeta(selectUsers+` WHERE deleted_at IS NULL AND email = ANY($1)`)).
		WithArgs(emails).
		WillReturnRows(userRow(7, "jane@example.com", "jane", "hash", ""))

	u, err := p.FindByCredentials(ctx, provider.Credentials{"email": emails})
	require.NoError(t, err)
	require.NotNil(t, u)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByCredentialsPasswordOnlyIssuesNoQuery(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	p, mock := newMockProvider(t)

	u, err := p.FindByCredentials(ctx, provider.Credentials{"password": "secret"})
	require.NoError(t, err)
	assert.Nil(t, u)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByCredentialsUnsupportedKey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	p, mock := newMockProvider(t)

	_, err := p.FindByCredentials(ctx, provider.Credentials{"role": "admin"})
	require.ErrorIs(t, err, provider.ErrUnsupportedCredentialKey)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByRememberToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	p, mock := newMockProvider(t)

	query := regexp.QuoteMeta(selectUsers + ` WHERE id = $1 AND deleted_at IS NULL`)

	mock.ExpectQuery(query).
		WithArgs(int64(7)).
		WillReturnRows(userRow(7, "jane@example.com", "jane", "hash", "remember-me"))

	u, err := p.FindByRememberToken(ctx, 7, "remember-me")
	require.NoError(t, err)
	require.NotNil(t, u)

	mock.ExpectQuery(query).
		WithArgs(int64(7)).
		WillReturnRows(userRow(7, "jane@example.com", "jane", "hash", "remember-me"))

	mismatch, err := p.FindByRememberToken(ctx, 7, "stolen")
	require.NoError(t, err)
	assert.Nil(t, mismatch)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateRememberToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	p, mock := newMockProvider(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET remember_token = $1, updated_at = now() WHERE id = $2`)).
		WithArgs("fresh-token", int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	u := &user.User{ID: 7}
	require.NoError(t, p.UpdateRememberToken(ctx, u, "fresh-token"))
	assert.Equal(t, "fresh-token", u.GetRememberToken())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRehashPasswordIfRequired(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	p, mock := newMockProvider(t)

	// Not a parsable bcrypt hash so a rehash is always required.
	u := &user.User{ID: 7, PasswordHash: "legacy"}

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`)).
		WithArgs(pgxmock.AnyArg(), int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, p.RehashPasswordIfRequired(ctx, u, provider.Credentials{"password": "secret"}))
	assert.NotEqual(t, "legacy", u.PasswordHash)

	ok, err := testHasher.Check("secret", u.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRehashSkippedWhenUpToDate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	p, mock := newMockProvider(t)

	hash, err := testHasher.Make("secret")
	require.NoError(t, err)
	u := &user.User{ID: 7, PasswordHash: hash}

	require.NoError(t, p.RehashPasswordIfRequired(ctx, u, provider.Credentials{"password": "secret"}))
	assert.Equal(t, hash, u.PasswordHash)

	require.NoError(t, mock.ExpectationsWereMet())
}
