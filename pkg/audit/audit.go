package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LoginAttempt is a single authentication attempt record. UserID is nil when
// the identifying credentials matched no account.
type LoginAttempt struct {
	ID         uuid.UUID
	Guard      string
	Identifier string
	UserID     *int64
	IP         string
	Success    bool
	CreatedAt  time.Time
}

// Recorder persists login attempts.
type Recorder interface {
	Record(ctx context.Context, attempt LoginAttempt) error
}

// Prepare fills in the record's id and timestamp when the caller left them
// zero.
func Prepare(attempt LoginAttempt) LoginAttempt {
	if attempt.ID == uuid.Nil {
		attempt.ID = uuid.New()
	}
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now().UTC()
	}
	return attempt
}
