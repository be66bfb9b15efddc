package provider

import "errors"

var (
	// ErrUnsupportedCredentialKey is returned when a credential key does not
	// map to a queryable user field. This is a programmer error, not a
	// failed login.
	ErrUnsupportedCredentialKey = errors.New("provider: unsupported credential key")
)
