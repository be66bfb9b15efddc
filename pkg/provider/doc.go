// Package provider abstracts locating and validating user records by
// credentials, id or remember token, independent of how the credentials
// arrived.
//
// Two drivers are included: StoreProvider wraps an application-supplied
// UserStore ("model" driver), PostgresProvider queries a users table
// directly over pgx ("connection" driver).
//
// Credential handling rules shared by all drivers:
//
//   - Any key containing the substring "password" is stripped before a
//     lookup, so passwords never become equality filters. Credentials left
//     without an identifying key return no user and issue no query at all.
//   - A "token" key selects the access-token search path: the value is
//     hashed and resolved through an accesstoken.Store, and the owning user
//     is returned with the token bound as its current access token.
//   - Remember tokens are compared in constant time.
//   - Password verification always goes through the configured hasher; a
//     successful login may trigger a transparent rehash when the stored
//     hash predates the current cost parameters.
package provider
