package provider

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/guardkit/guardkit/pkg/accesstoken"
	"github.com/guardkit/guardkit/pkg/hasher"
	"github.com/guardkit/guardkit/pkg/pg"
	"github.com/guardkit/guardkit/pkg/user"
)

// DB is the subset of pgxpool.Pool used by PostgresProvider. Satisfied by
// *pgxpool.Pool and by pgxmock in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const userColumns = `id, email, username, password_hash, remember_token, email_verified_at, created_at, updated_at, deleted_at`

// filterableColumns whitelists credential keys that may become SQL filters.
// Anything else is rejected before reaching the query builder.
var filterableColumns = map[string]struct{}{
	"id":       {},
	"email":    {},
	"username": {},
}

// PostgresProvider implements UserProvider directly over a users table
// ("connection" driver):
//
//	CREATE TABLE users (
//	    id                BIGSERIAL PRIMARY KEY,
//	    email             TEXT NOT NULL UNIQUE,
//	    username          TEXT NOT NULL UNIQUE,
//	    password_hash     TEXT NOT NULL,
//	    remember_token    TEXT NOT NULL DEFAULT '',
//	    email_verified_at TIMESTAMPTZ,
//	    created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
//	    updated_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
//	    deleted_at        TIMESTAMPTZ
//	);
type PostgresProvider struct {
	db     DB
	hasher hasher.Hasher
	tokens accesstoken.Store
}

// PostgresProviderOption configures a PostgresProvider.
type PostgresProviderOption func(*PostgresProvider)

// WithPostgresAccessTokens enables the token-search path for credentials
// carrying a "token" key.
func WithPostgresAccessTokens(tokens accesstoken.Store) PostgresProviderOption {
	return func(p *PostgresProvider) {
		p.tokens = tokens
	}
}

// NewPostgresProvider creates a provider over the given connection pool and
// hasher.
func NewPostgresProvider(db DB, h hasher.Hasher, opts ...PostgresProviderOption) *PostgresProvider {
	p := &PostgresProvider{db: db, hasher: h}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *PostgresProvider) FindByID(ctx context.Context, id int64) (*user.User, error) {
	return p.findOne(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 AND deleted_at IS NULL`, id)
}

func (p *PostgresProvider) FindByCredentials(ctx context.Context, creds Credentials) (*user.User, error) {
	if raw, ok := creds[TokenKey].(string); ok {
		return resolveByToken(ctx, p.tokens, p.FindByID, raw)
	}

	filters := creds.Identifying()
	if len(filters) == 0 {
		// Password-only credentials cannot identify anyone; no query.
		return nil, nil
	}

	query, args, err := buildFilterQuery(filters)
	if err != nil {
		return nil, err
	}

	return p.findOne(ctx, query, args...)
}

func (p *PostgresProvider) FindByRememberToken(ctx context.Context, id int64, token string) (*user.User, error) {
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

func (p *PostgresProvider) ValidateCredentials(_ context.Context, u *user.User, creds Credentials) (bool, error) {
	return validatePassword(p.hasher, u, creds)
}

func (p *PostgresProvider) RehashPasswordIfRequired(ctx context.Context, u *user.User, creds Credentials) error {
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

	if _, err := p.db.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`,
		rehashed, u.ID,
	); err != nil {
		return fmt.Errorf("provider: persist rehash: %w", err)
	}

	u.PasswordHash = rehashed
	return nil
}

func (p *PostgresProvider) UpdateRememberToken(ctx context.Context, u *user.User, token string) error {
	if _, err := p.db.Exec(ctx,
		`UPDATE users SET remember_token = $1, updated_at = now() WHERE id = $2`,
		token, u.ID,
	); err != nil {
		return fmt.Errorf("provider: update remember token: %w", err)
	}

	u.SetRememberToken(token)
	return nil
}

func (p *PostgresProvider) findOne(ctx context.Context, query string, args ...any) (*user.User, error) {
	var u user.User
	err := p.db.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.RememberToken,
		&u.EmailVerifiedAt, &u.CreatedAt, &u.UpdatedAt, &u.DeletedAt,
	)
	if pg.IsNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("provider: query user: %w", err)
	}
	return &u, nil
}

// buildFilterQuery turns identifying credentials into a deterministic WHERE
// clause. Keys are sorted so the generated SQL is stable; slice values use
// ANY for IN semantics.
func buildFilterQuery(filters Credentials) (string, []any, error) {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		if _, ok := filterableColumns[k]; !ok {
			return "", nil, fmt.Errorf("%w: %q", ErrUnsupportedCredentialKey, k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT ` + userColumns + ` FROM users WHERE deleted_at IS NULL`)

	for i, k := range keys {
		value := filters[k]
		switch value.(type) {
		case []string, []any, []int64:
			fmt.Fprintf(&sb, ` AND %s = ANY($%d)`, k, i+1)
		default:
			fmt.Fprintf(&sb, ` AND %s = $%d`, k, i+1)
		}
		args = append(args, value)
	}

	return sb.String(), args, nil
}
