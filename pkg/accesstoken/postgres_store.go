package accesstoken

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/guardkit/guardkit/pkg/pg"
	"github.com/guardkit/guardkit/pkg/scopes"
)

// DB is the subset of pgxpool.Pool used by PostgresStore. Satisfied by
// *pgxpool.Pool and by pgxmock in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists access tokens in a Postgres table:
//
//	CREATE TABLE access_tokens (
//	    id           BIGSERIAL PRIMARY KEY,
//	    user_id      BIGINT NOT NULL,
//	    name         TEXT NOT NULL,
//	    token_hash   TEXT NOT NULL UNIQUE,
//	    scopes       TEXT NOT NULL DEFAULT '',
//	    last_used_at TIMESTAMPTZ,
//	    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
//
// Scopes are stored space-separated via pkg/scopes.
type PostgresStore struct {
	db DB
}

// NewPostgresStore creates a Postgres-backed token store.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, token *Token) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO access_tokens (user_id, name, token_hash, scopes, created_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		token.UserID, token.Name, token.TokenHash, scopes.Join(token.Scopes), token.CreatedAt,
	).Scan(&token.ID)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrDuplicateTokenHash
		}
		return fmt.Errorf("accesstoken: create: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByHash(ctx context.Context, hash string) (*Token, error) {
	return s.findOne(ctx,
		`SELECT id, user_id, name, token_hash, scopes, last_used_at, created_at
		 FROM access_tokens WHERE token_hash = $1`, hash)
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (*Token, error) {
	return s.findOne(ctx,
		`SELECT id, user_id, name, token_hash, scopes, last_used_at, created_at
		 FROM access_tokens WHERE id = $1`, id)
}

func (s *PostgresStore) findOne(ctx context.Context, query string, arg any) (*Token, error) {
	var (
		t         Token
		scopesRaw string
	)
	err := s.db.QueryRow(ctx, query, arg).Scan(
		&t.ID, &t.UserID, &t.Name, &t.TokenHash, &scopesRaw, &t.LastUsedAt, &t.CreatedAt,
	)
	if pg.IsNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("accesstoken: find: %w", err)
	}

	t.Scopes = scopes.Parse(scopesRaw)
	return &t, nil
}

func (s *PostgresStore) Touch(ctx context.Context, id int64, usedAt time.Time) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE access_tokens SET last_used_at = $1 WHERE id = $2`, usedAt, id)
	if err != nil {
		return fmt.Errorf("accesstoken: touch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTokenNotFound
	}
	return nil
}

func (s *PostgresStore) Revoke(ctx context.Context, id int64) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM access_tokens WHERE id = $1`, id); err != nil {
		return fmt.Errorf("accesstoken: revoke: %w", err)
	}
	return nil
}

func (s *PostgresStore) RevokeAllForUser(ctx context.Context, userID int64) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM access_tokens WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("accesstoken: revoke all: %w", err)
	}
	return nil
}
