// Package token provides compact, signed tokens for embedding JSON payloads
// in links such as email-verification URLs.
//
// Tokens use HMAC-SHA256 with a truncated 16-byte signature for balance
// between security and compactness. Suitable for short-lived application
// tokens; not a replacement for stored, hashed credentials.
//
// Token format: base64url(payload).base64url(signature)
//
// # Usage
//
//	type Payload struct {
//	    UserID int64 `json:"uid"`
//	    Exp    int64 `json:"exp"`
//	}
//
//	tok, err := token.Generate(Payload{42, time.Now().Add(time.Hour).Unix()}, secret)
//
//	p, err := token.Parse[Payload](tok, secret)
//
// Parse returns ErrInvalidToken for malformed tokens and ErrSignatureInvalid
// for signature mismatches.
package token
