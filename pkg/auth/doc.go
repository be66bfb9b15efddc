// Package auth ties the authentication pieces together: named guards over
// named user providers, configured once and resolved per request.
//
// Manager owns the long-lived parts (user providers, hasher, encrypter,
// event dispatcher, throttle, audit sink). Manager.Request scopes it to one
// request, attaching the session, cookie jar, bearer token and client
// address; guards built through a Request are cached so every caller within
// the request shares the same memoized user.
//
// Guard selection is context-scoped: WithGuardName marks which guard a
// handler chain wants and Request.Resolve honors it, falling back to the
// configured default. Custom guard and provider drivers plug in through
// Extend and RegisterProviderDriver.
package auth
