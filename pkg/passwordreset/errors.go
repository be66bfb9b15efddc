package passwordreset

import "errors"

var (
	// ErrAppKeyRequired indicates a missing application secret.
	ErrAppKeyRequired = errors.New("passwordreset: app key is required")
)
