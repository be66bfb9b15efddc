// Package accesstoken implements the personal access token lifecycle:
// issuance, hash-based lookup, scope checks and revocation.
//
// A raw token secret is 64 random bytes, base64url-encoded. Only its SHA-256
// hash is persisted; the secret itself is returned exactly once, inside the
// NewToken handle produced at creation, and can never be recovered from a
// later lookup. Token hashes are unique across all tokens.
//
// Scope semantics: the wildcard "*" grants every capability, otherwise scope
// checks are exact membership tests. A token with an empty scope list grants
// nothing — Can reports false and Cant reports true simultaneously.
//
// # Usage
//
//	issuer := accesstoken.NewIssuer(accesstoken.NewMemoryStore())
//
//	nt, err := issuer.Generate(ctx, userID, "ci-deploy", "post:read")
//	// nt.PlainText is shown to the user once; nt.Token.TokenHash is stored.
//
//	t, err := store.FindByHash(ctx, accesstoken.Hash(bearerSecret))
package accesstoken
