// Package encrypter provides authenticated symmetric encryption for opaque
// string payloads such as the remember-me recaller cookie.
//
// The AES implementation uses AES-256-GCM with a random nonce prepended to
// each ciphertext. Multiple keys may be configured to support rotation: the
// first key encrypts, every key is tried during decryption. Tampered input
// always surfaces as ErrDecryptionFailed — callers are expected to treat it
// as "no payload present", not as a fatal condition.
package encrypter
