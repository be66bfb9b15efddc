// Package gate provides ability-based authorization: named callbacks over
// the authenticated user, per-resource-type policies, and before hooks that
// can short-circuit any check (a super-admin override, typically).
//
// Checks resolve in a fixed order: before hooks first, then the policy
// registered for the first argument's type, then the globally defined
// ability. Abilities nobody defined are denied rather than erroring, so a
// misspelled ability fails closed.
//
// Usage:
//
//	g := gate.New()
//	g.Define("posts.create", func(ctx context.Context, u *user.User, _ ...any) bool {
//		return u != nil && u.EmailVerifiedAt != nil
//	})
//	g.Policy(&Post{}, gate.PolicyFunc{
//		"update": func(ctx context.Context, u *user.User, args ...any) bool {
//			post := args[0].(*Post)
//			return u != nil && post.AuthorID == u.ID
//		},
//	})
//
//	if err := g.Authorize(ctx, u, "update", post); err != nil {
//		// errors.Is(err, gate.ErrForbidden)
//	}
package gate
