package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrFailedToOpenDBConnection = errors.New("failed to open db connection")
	ErrHealthcheckFailed        = errors.New("healthcheck failed, connection is not available")
	ErrFailedToParseDBConfig    = errors.New("failed to parse db config")
)

// IsNotFoundError detects pgx.ErrNoRows for consistent "not found" handling across queries.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, pgx.ErrNoRows)
}

// IsTxClosedError detects attempts to use closed transactions.
func IsTxClosedError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, pgx.ErrTxClosed)
}

// IsDuplicateKeyError detects PostgreSQL unique constraint violations (SQLSTATE 23505),
// such as a second signup racing on the users email unique index.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsForeignKeyViolationError detects referential integrity violations (SQLSTATE 23503),
// such as an access token insert referencing a deleted user.
func IsForeignKeyViolationError(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
