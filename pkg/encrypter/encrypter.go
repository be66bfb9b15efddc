package encrypter

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"slices"
)

const keyLength = 32 // AES-256

// Encrypter encrypts and decrypts opaque string payloads. Decrypt must fail
// with ErrDecryptionFailed on tampered or otherwise invalid input.
type Encrypter interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// AES implements Encrypter with AES-256-GCM. It supports multiple keys to
// allow key rotation: the first key encrypts, all keys are tried on decrypt
// so payloads produced under a previous key remain readable.
type AES struct {
	keys []string
}

// NewAES creates an AES encrypter from one or more secret keys. Each key must
// be at least 32 characters; only the first 32 bytes are used as key material.
func NewAES(keys ...string) (*AES, error) {
	keys = slices.DeleteFunc(slices.Clone(keys), func(s string) bool { return s == "" })
	if len(keys) == 0 {
		return nil, ErrNoKey
	}

	for i, k := range keys {
		if len(k) < keyLength {
			return nil, fmt.Errorf("%w: key %d has %d chars, need at least %d", ErrKeyTooShort, i, len(k), keyLength)
		}
	}

	return &AES{keys: keys}, nil
}

// Encrypt seals the plaintext under the primary key. The random nonce is
// prepended to the ciphertext so payloads are self-contained.
func (e *AES) Encrypt(plaintext string) (string, error) {
	gcm, err := newGCM(e.keys[0])
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("encrypter: nonce generation: %w", err)
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(ciphertext), nil
}

// Decrypt opens the ciphertext, trying every configured key. Any failure —
// bad encoding, truncated payload, failed authentication tag — is reported
// as ErrDecryptionFailed so callers can treat tampered input uniformly.
func (e *AES) Decrypt(encrypted string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encrypted)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	for _, key := range e.keys {
		gcm, err := newGCM(key)
		if err != nil {
			continue
		}

		if len(raw) < gcm.NonceSize() {
			continue
		}

		nonce, ciphertext := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
		if plaintext, err := gcm.Open(nil, nonce, ciphertext, nil); err == nil {
			return string(plaintext), nil
		}
	}

	return "", ErrDecryptionFailed
}

func newGCM(key string) (cipher.AEAD, error) {
	block, err := aes.NewCipher([]byte(key[:keyLength]))
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
