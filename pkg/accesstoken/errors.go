package accesstoken

import "errors"

var (
	// ErrDuplicateTokenHash is returned when a token hash collides with an
	// existing one. Hashes are derived from 64 random bytes, so in practice
	// this indicates a double insert.
	ErrDuplicateTokenHash = errors.New("accesstoken: duplicate token hash")

	// ErrTokenNotFound is returned by operations that require an existing token
	ErrTokenNotFound = errors.New("accesstoken: token not found")
)
