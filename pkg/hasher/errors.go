package hasher

import "errors"

var (
	// ErrAlgorithmMismatch is returned when a hash is checked against a
	// driver of a different algorithm family. This indicates the caller is
	// using the wrong hasher, not that the password is wrong.
	ErrAlgorithmMismatch = errors.New("hasher: hash was not produced by this algorithm")

	// ErrInvalidHash is returned when a stored hash cannot be parsed
	ErrInvalidHash = errors.New("hasher: malformed hash")

	// ErrUnknownDriver is returned for an unconfigured driver name
	ErrUnknownDriver = errors.New("hasher: unknown driver")
)
