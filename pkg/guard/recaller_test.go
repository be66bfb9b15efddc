package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecaller(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  Recaller
		ok    bool
	}{
		{"valid", "7|token123|$2y$hash", Recaller{ID: 7, Token: "token123", Hash: "$2y$hash"}, true},
		{"hash with pipes keeps remainder", "7|tok|a|b", Recaller{ID: 7, Token: "tok", Hash: "a|b"}, true},
		{"two segments", "7|token123", Recaller{}, false},
		{"non-numeric id", "abc|token|hash", Recaller{}, false},
		{"zero id", "0|token|hash", Recaller{}, false},
		{"empty token", "7||hash", Recaller{}, false},
		{"empty hash", "7|token|", Recaller{}, false},
		{"empty", "", Recaller{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := parseRecaller(tt.value)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestRecallerRoundTrip(t *testing.T) {
	t.Parallel()

	r := Recaller{ID: 42, Token: "sometoken", Hash: "somehash"}
	parsed, ok := parseRecaller(r.String())
	require.True(t, ok)
	assert.Equal(t, r, parsed)
}

func TestNewRememberToken(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for range 10 {
		token, err := newRememberToken()
		require.NoError(t, err)
		require.Len(t, token, 60)
		for _, r := range token {
			assert.Contains(t, alnum, string(r))
		}
		seen[token] = struct{}{}
	}
	assert.Len(t, seen, 10, "tokens must not repeat")
}

func TestStripBearer(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc123", StripBearer("Bearer abc123"))
	assert.Equal(t, "abc123", StripBearer("bearer abc123"))
	assert.Equal(t, "abc123", StripBearer("BEARER abc123"))
	assert.Equal(t, "abc123", StripBearer("abc123"))
	assert.Equal(t, "abc123", StripBearer("  abc123  "))
	assert.Equal(t, "", StripBearer(""))
}
