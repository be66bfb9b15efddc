package gate

import "errors"

var (
	// ErrForbidden is returned by Authorize when the ability is denied.
	ErrForbidden = errors.New("gate.forbidden")
)
