package audit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool used by PostgresRecorder.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRecorder persists login attempts into a login_attempts table:
//
//	CREATE TABLE login_attempts (
//	    id         UUID PRIMARY KEY,
//	    guard      TEXT NOT NULL,
//	    identifier TEXT NOT NULL,
//	    user_id    BIGINT,
//	    ip         TEXT NOT NULL DEFAULT '',
//	    success    BOOLEAN NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL
//	);
type PostgresRecorder struct {
	db DB
}

// NewPostgresRecorder creates a recorder over the given connection pool.
func NewPostgresRecorder(db DB) *PostgresRecorder {
	return &PostgresRecorder{db: db}
}

func (r *PostgresRecorder) Record(ctx context.Context, attempt LoginAttempt) error {
	attempt = Prepare(attempt)

	if _, err := r.db.Exec(ctx,
		`INSERT INTO login_attempts (id, guard, identifier, user_id, ip, success, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		attempt.ID, attempt.Guard, attempt.Identifier, attempt.UserID, attempt.IP, attempt.Success, attempt.CreatedAt,
	); err != nil {
		return fmt.Errorf("audit: record attempt: %w", err)
	}
	return nil
}
