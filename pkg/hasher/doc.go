// Package hasher provides pluggable password hashing with bcrypt, argon2i
// and argon2id drivers, rehash detection, and a configuration-driven manager.
//
// Every driver pre-hashes the raw password with SHA-384 (base64-encoded)
// before feeding it to the algorithm. This normalizes arbitrarily long
// passwords to a fixed-length input that fits bcrypt's 72-byte limit and is
// applied identically on the Make and Check paths.
//
// Checking a hash produced by a different algorithm family is treated as a
// programmer error and returns ErrAlgorithmMismatch instead of false, so a
// misconfigured driver cannot silently lock every user out.
//
// # Usage
//
//	var cfg hasher.Config
//	config.MustLoad(&cfg)
//
//	hm := hasher.NewManager(cfg)
//
//	hash, err := hm.Make("plain-text-password")
//	ok, err := hm.Check("plain-text-password", hash)
//	if hm.NeedsRehash(hash) {
//	    // regenerate on next successful login
//	}
package hasher
