package accesstoken_test

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardkit/guardkit/pkg/accesstoken"
)

func TestTokenCanCant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		scopes   []string
		scope    string
		wantCan  bool
		wantCant bool
	}{
		{"exact member", []string{"post:read"}, "post:read", true, false},
		{"not a member", []string{"post:read"}, "post:write", false, true},
		{"wildcard", []string{"*"}, "anything", true, false},
		{"wildcard among others", []string{"post:read", "*"}, "post:delete", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tok := &accesstoken.Token{Scopes: tt.scopes}
			assert.Equal(t, tt.wantCan, tok.Can(tt.scope))
			assert.Equal(t, tt.wantCant, tok.Cant(tt.scope))
			// Scope law: Can and Cant are negations of each other.
			assert.Equal(t, tok.Can(tt.scope), !tok.Cant(tt.scope))
		})
	}
}

// Empty scopes are the deliberate exception to the scope law: both answers
// are "no" in their own sense — Can denies and Cant forbids at the same time.
func TestTokenEmptyScopesDenyByDefault(t *testing.T) {
	t.Parallel()

	tok := &accesstoken.Token{Scopes: nil}
	assert.False(t, tok.Can("post:read"))
	assert.True(t, tok.Cant("post:read"))

	var nilTok *accesstoken.Token
	assert.False(t, nilTok.Can("post:read"))
	assert.True(t, nilTok.Cant("post:read"))
}

func TestGenerateSecret(t *testing.T) {
	t.Parallel()

	s1, err := accesstoken.GenerateSecret()
	require.NoError(t, err)
	s2, err := accesstoken.GenerateSecret()
	require.NoError(t, err)

	assert.NotEqual(t, s1, s2)
	// 64 bytes base64url-encoded without padding.
	assert.Len(t, s1, 86)
}

func TestHash(t *testing.T) {
	t.Parallel()

	sum := sha256.Sum256([]byte("raw-secret"))
	assert.Equal(t, hex.EncodeToString(sum[:]), accesstoken.Hash("raw-secret"))
	assert.Equal(t, accesstoken.Hash("x"), accesstoken.Hash("x"))
	assert.NotEqual(t, accesstoken.Hash("x"), accesstoken.Hash("y"))
}
