package session

import "errors"

var (
	// ErrStoreUnavailable indicates the backing store could not be reached.
	ErrStoreUnavailable = errors.New("session: store unavailable")

	// ErrEncodingFailed indicates session data could not be serialized.
	ErrEncodingFailed = errors.New("session: encoding failed")
)
