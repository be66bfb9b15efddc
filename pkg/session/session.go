package session

import "github.com/google/uuid"

// Session is the key-value state bag a stateful guard persists users into.
// Implementations must be safe for concurrent use.
type Session interface {
	// ID returns the current session identifier.
	ID() string

	// Get returns the value stored under key.
	Get(key string) (any, bool)

	// Put stores a value under key.
	Put(key string, value any)

	// Remove deletes the value stored under key.
	Remove(key string)

	// Regenerate swaps the session identifier, keeping the data. With
	// destroy set the data is discarded as well. Used on login to defeat
	// session fixation and on logout to orphan the old identifier.
	Regenerate(destroy bool) error
}

func newID() string {
	return uuid.NewString()
}
