package audit

import "errors"

var (
	// ErrRecorderClosed indicates the async recorder was shut down.
	ErrRecorderClosed = errors.New("audit: recorder closed")
)
