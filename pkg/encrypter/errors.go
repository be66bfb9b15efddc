package encrypter

import "errors"

var (
	// ErrNoKey is returned when no non-empty key is supplied
	ErrNoKey = errors.New("encrypter: at least one key is required")

	// ErrKeyTooShort is returned when a key has fewer than 32 characters
	ErrKeyTooShort = errors.New("encrypter: key too short")

	// ErrDecryptionFailed is returned for any tampered or invalid ciphertext
	ErrDecryptionFailed = errors.New("encrypter: decryption failed")
)
