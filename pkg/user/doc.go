// Package user defines the account record shared by providers, guards and
// brokers.
//
// Besides the persisted attributes (identifier, email, password hash,
// remember token, verification timestamp, soft-delete marker) a User carries
// one piece of transient request state: the access token the current request
// authenticated with, bound by a token guard via WithAccessToken and queried
// through TokenCan/TokenCant.
package user
