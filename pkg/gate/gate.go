package gate

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/guardkit/guardkit/pkg/logger"
	"github.com/guardkit/guardkit/pkg/user"
)

// AbilityFunc decides whether a user may perform an ability. The user is nil
// for guests, so callbacks that only apply to authenticated users must check.
type AbilityFunc func(ctx context.Context, u *user.User, args ...any) bool

// BeforeFunc runs ahead of every ability check. Returning decided=true
// short-circuits the check with the given decision; decided=false defers to
// the next hook or the ability itself.
type BeforeFunc func(ctx context.Context, u *user.User, ability string, args ...any) (decision, decided bool)

// PolicyFunc maps ability names to callbacks for one resource type.
type PolicyFunc map[string]AbilityFunc

// Gate holds ability definitions and resource policies. Checks resolve in
// order: before hooks, then the policy registered for the first argument's
// type, then the named ability. An ability nobody defined is denied.
//
// Registration is expected at startup; checks may run concurrently.
type Gate struct {
	mu        sync.RWMutex
	abilities map[string]AbilityFunc
	before    []BeforeFunc
	policies  map[reflect.Type]PolicyFunc
	log       *slog.Logger
}

// Option configures a Gate.
type Option func(*Gate)

// WithGateLogger sets a custom logger.
func WithGateLogger(log *slog.Logger) Option {
	return func(g *Gate) {
		if log != nil {
			g.log = log
		}
	}
}

// New creates an empty gate.
func New(opts ...Option) *Gate {
	g := &Gate{
		abilities: make(map[string]AbilityFunc),
		policies:  make(map[reflect.Type]PolicyFunc),
		log:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Define registers an ability callback. Defining the same ability twice
// replaces the earlier callback.
func (g *Gate) Define(ability string, fn AbilityFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.abilities[ability] = fn
}

// Before registers a hook consulted ahead of every check, in registration
// order. The first hook that decides wins.
func (g *Gate) Before(fn BeforeFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.before = append(g.before, fn)
}

// Policy registers per-ability callbacks for the resource type of sample.
// Checks whose first argument has that exact type dispatch to the policy
// instead of the globally defined ability.
func (g *Gate) Policy(sample any, policy PolicyFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.policies[reflect.TypeOf(sample)] = policy
}

// Allows reports whether the user may perform the ability.
func (g *Gate) Allows(ctx context.Context, u *user.User, ability string, args ...any) bool {
	g.mu.RLock()
	before := g.before
	fn, defined := g.resolve(ability, args)
	g.mu.RUnlock()

	for _, hook := range before {
		if decision, decided := hook(ctx, u, ability, args...); decided {
			return decision
		}
	}

	if !defined {
		g.log.DebugContext(ctx, "ability not defined", slog.String("ability", ability))
		return false
	}
	return fn(ctx, u, ability, args...)
}

// Denies is the negation of Allows.
func (g *Gate) Denies(ctx context.Context, u *user.User, ability string, args ...any) bool {
	return !g.Allows(ctx, u, ability, args...)
}

// Authorize returns nil when the ability is allowed and an error wrapping
// ErrForbidden otherwise.
func (g *Gate) Authorize(ctx context.Context, u *user.User, ability string, args ...any) error {
	if g.Allows(ctx, u, ability, args...) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrForbidden, ability)
}

// resolve picks the callback for the check: a policy entry for the first
// argument's type when one is registered, otherwise the defined ability.
// The returned func closes over the policy callback's narrower signature.
func (g *Gate) resolve(ability string, args []any) (func(context.Context, *user.User, string, ...any) bool, bool) {
	if len(args) > 0 {
		if policy, ok := g.policies[reflect.TypeOf(args[0])]; ok {
			fn, ok := policy[ability]
			if !ok {
				return nil, false
			}
			return func(ctx context.Context, u *user.User, _ string, args ...any) bool {
				return fn(ctx, u, args...)
			}, true
		}
	}

	fn, ok := g.abilities[ability]
	if !ok {
		return nil, false
	}
	return func(ctx context.Context, u *user.User, _ string, args ...any) bool {
		return fn(ctx, u, args...)
	}, true
}
