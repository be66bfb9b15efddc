package auth

import (
	"context"

	"github.com/guardkit/guardkit/pkg/user"
)

type ctxKey int

const (
	guardNameKey ctxKey = iota
	userKey
)

// WithGuardName marks the guard a handler chain should authenticate with.
// Scoping the choice to the context keeps concurrent requests independent.
func WithGuardName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, guardNameKey, name)
}

// GuardName returns the guard name selected for this context.
func GuardName(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(guardNameKey).(string)
	return name, ok && name != ""
}

// WithUser stores the authenticated user in the context, typically done by
// middleware after a successful guard check.
func WithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the authenticated user stored in the context.
func UserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(userKey).(*user.User)
	return u, ok && u != nil
}
