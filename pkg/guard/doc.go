// Package guard implements the authentication guards: the request-scoped
// objects that decide who, if anyone, the current user is.
//
// SessionGuard is the stateful variant. It resolves the user lazily from the
// session, falls back to the encrypted remember-me cookie exactly once, and
// memoizes the answer for the rest of the request. Attempt wires the full
// login path: throttling, credential validation, transparent password
// rehashing, lifecycle events and audit records. Logout rotates the remember
// token so every outstanding recaller cookie is invalidated at once.
//
// TokenGuard and AccessTokenGuard are stateless. TokenGuard funnels the
// bearer token through the user provider's token search path;
// AccessTokenGuard goes straight to the access token store, touches the
// token's last-used time and binds it to the user for scope checks.
//
// Guards are built per request and must not be shared across them.
package guard
