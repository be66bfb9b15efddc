package encrypter_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardkit/guardkit/pkg/encrypter"
)

const (
	testKey    = "0123456789abcdef0123456789abcdef"
	rotatedKey = "fedcba9876543210fedcba9876543210"
)

func TestNewAESValidation(t *testing.T) {
	t.Parallel()

	_, err := encrypter.NewAES()
	assert.ErrorIs(t, err, encrypter.ErrNoKey)

	_, err = encrypter.NewAES("")
	assert.ErrorIs(t, err, encrypter.ErrNoKey)

	_, err = encrypter.NewAES("short")
	assert.ErrorIs(t, err, encrypter.ErrKeyTooShort)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	t.Parallel()

	enc, err := encrypter.NewAES(testKey)
	require.NoError(t, err)

	plaintext := "42|OqYq3pTZ0mX|$2a$10$abcdefghij"
	ciphertext, err := enc.Encrypt(plaintext)
	require.NoError(t, err)
	require.NotEqual(t, plaintext, ciphertext)

	got, err := enc.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	t.Parallel()

	enc, err := encrypter.NewAES(testKey)
	require.NoError(t, err)

	a, err := enc.Encrypt("payload")
	require.NoError(t, err)
	b, err := enc.Encrypt("payload")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestDecryptTamperedPayload(t *testing.T) {
	t.Parallel()

	enc, err := encrypter.NewAES(testKey)
	require.NoError(t, err)

	ciphertext, err := enc.Encrypt("secret payload")
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(ciphertext)
	require.NoError(t, err)

	// Flip one byte in the middle of the ciphertext.
	raw[len(raw)/2] ^= 0x01
	tampered := base64.RawURLEncoding.EncodeToString(raw)

	_, err = enc.Decrypt(tampered)
	assert.ErrorIs(t, err, encrypter.ErrDecryptionFailed)
}

func TestDecryptGarbage(t *testing.T) {
	t.Parallel()

	enc, err := encrypter.NewAES(testKey)
	require.NoError(t, err)

	for _, input := range []string{"", "!not-base64!", "dG9vc2hvcnQ", strings.Repeat("A", 200)} {
		_, err := enc.Decrypt(input)
		assert.ErrorIs(t, err, encrypter.ErrDecryptionFailed, "input %q", input)
	}
}

func TestKeyRotation(t *testing.T) {
	t.Parallel()

	oldEnc, err := encrypter.NewAES(testKey)
	require.NoError(t, err)

	ciphertext, err := oldEnc.Encrypt("remember me")
	require.NoError(t, err)

	// New primary key with the old key retained for rotation.
	newEnc, err := encrypter.NewAES(rotatedKey, testKey)
	require.NoError(t, err)

	got, err := newEnc.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "remember me", got)

	// Without the old key the payload is unreadable.
	freshEnc, err := encrypter.NewAES(rotatedKey)
	require.NoError(t, err)
	_, err = freshEnc.Decrypt(ciphertext)
	assert.ErrorIs(t, err, encrypter.ErrDecryptionFailed)
}
