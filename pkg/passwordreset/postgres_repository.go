package passwordreset

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/guardkit/guardkit/pkg/hasher"
	"github.com/guardkit/guardkit/pkg/pg"
	"github.com/guardkit/guardkit/pkg/user"
)

// DB is the subset of pgxpool.Pool used by PostgresRepository.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository persists pending tokens in a password_reset_tokens
// table. The email primary key enforces at most one pending token per
// address:
//
//	CREATE TABLE password_reset_tokens (
//	    email      TEXT PRIMARY KEY,
//	    token      TEXT NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL
//	);
type PostgresRepository struct {
	db  DB
	cfg repoConfig
}

// NewPostgresRepository creates a repository over the given connection pool,
// keyed by the application secret.
func NewPostgresRepository(db DB, appKey string, h hasher.Hasher, opts ...RepositoryOption) (*PostgresRepository, error) {
	cfg, err := newRepoConfig(appKey, h, opts)
	if err != nil {
		return nil, err
	}
	return &PostgresRepository{db: db, cfg: cfg}, nil
}

func (r *PostgresRepository) Create(ctx context.Context, u *user.User) (string, error) {
	token, err := generateToken(r.cfg.appKey)
	if err != nil {
		return "", err
	}

	hash, err := r.cfg.hasher.Make(token)
	if err != nil {
		return "", fmt.Errorf("passwordreset: hash token: %w", err)
	}

	if _, err := r.db.Exec(ctx,
		`DELETE FROM password_reset_tokens WHERE email = $1`, u.Email,
	); err != nil {
		return "", fmt.Errorf("passwordreset: delete pending token: %w", err)
	}

	if _, err := r.db.Exec(ctx,
		`INSERT INTO password_reset_tokens (email, token, created_at) VALUES ($1, $2, $3)`,
		u.Email, hash, r.cfg.now().UTC(),
	); err != nil {
		return "", fmt.Errorf("passwordreset: insert token: %w", err)
	}

	return token, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, u *user.User, token string) (bool, error) {
	rec, err := r.find(ctx, u.Email)
	if err != nil {
		return false, err
	}
	if rec == nil || rec.expired(r.cfg.expires, r.cfg.now()) {
		return false, nil
	}

	match, err := r.cfg.hasher.Check(token, rec.tokenHash)
	if err != nil {
		return false, fmt.Errorf("passwordreset: check token: %w", err)
	}
	return match, nil
}

func (r *PostgresRepository) RecentlyCreated(ctx context.Context, u *user.User) (bool, error) {
	rec, err := r.find(ctx, u.Email)
	if err != nil || rec == nil {
		return false, err
	}
	return rec.recentlyCreated(r.cfg.throttle, r.cfg.now()), nil
}

func (r *PostgresRepository) Destroy(ctx context.Context, u *user.User) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM password_reset_tokens WHERE email = $1`, u.Email,
	); err != nil {
		return fmt.Errorf("passwordreset: destroy token: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DestroyExpired(ctx context.Context) error {
	cutoff := r.cfg.now().Add(-r.cfg.expires).UTC()
	if _, err := r.db.Exec(ctx,
		`DELETE FROM password_reset_tokens WHERE created_at <= $1`, cutoff,
	); err != nil {
		return fmt.Errorf("passwordreset: destroy expired tokens: %w", err)
	}
	return nil
}

func (r *PostgresRepository) find(ctx context.Context, email string) (*record, error) {
	var (
		rec       record
		createdAt time.Time
	)
	err := r.db.QueryRow(ctx,
		`SELECT email, token, created_at FROM password_reset_tokens WHERE email = $1`, email,
	).Scan(&rec.email, &rec.tokenHash, &createdAt)
	if pg.IsNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("passwordreset: query token: %w", err)
	}
	rec.createdAt = createdAt
	return &rec, nil
}
