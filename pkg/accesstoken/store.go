package accesstoken

import (
	"context"
	"time"
)

// Store persists access tokens. Lookups that find nothing return (nil, nil);
// errors are reserved for storage failures.
type Store interface {
	// Create persists the token and assigns its ID. The token hash is
	// unique across all tokens; a duplicate returns ErrDuplicateTokenHash.
	Create(ctx context.Context, token *Token) error

	// FindByHash returns the token with the given secret hash.
	FindByHash(ctx context.Context, hash string) (*Token, error)

	// FindByID returns the token with the given id.
	FindByID(ctx context.Context, id int64) (*Token, error)

	// Touch records when the token was last used for authentication.
	Touch(ctx context.Context, id int64, usedAt time.Time) error

	// Revoke deletes a single token.
	Revoke(ctx context.Context, id int64) error

	// RevokeAllForUser deletes every token owned by the user.
	RevokeAllForUser(ctx context.Context, userID int64) error
}
