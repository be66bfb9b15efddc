// Package guardkit provides pluggable authentication and authorization
// building blocks for Go applications: guards over user providers, password
// hashing with rehash-on-login, remember-me cookies, personal access tokens,
// password reset and email verification brokers, login throttling, and an
// ability-based authorization gate.
//
// The module is a collection of small packages under pkg/, each usable on
// its own. pkg/auth ties them together behind a named-guard configuration:
//
//	m := auth.NewManager(auth.DefaultConfig(),
//		auth.WithUserStore("users", provider.NewMemoryUserStore()),
//		auth.WithEncrypter(enc),
//		auth.WithTokenStore(accesstoken.NewMemoryStore()),
//	)
//
//	req := m.Request(
//		auth.WithSession(sess),
//		auth.WithCookieJar(cookie.NewHTTPJar(w, r)),
//		auth.WithClientIP(clientip.FromRequest(r)),
//	)
//
//	g, err := req.Guard("web")
//
// Storage interfaces ship with in-memory implementations for tests and
// Postgres (pgx) or Redis (go-redis) implementations for production.
package guardkit
