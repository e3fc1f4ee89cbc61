package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBookingReference(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		ref := NewBookingReference()
		assert.True(t, strings.HasPrefix(ref, "HB-"))
		assert.Len(t, ref, 11)
		assert.Equal(t, strings.ToUpper(ref), ref)
		seen[ref] = true
	}
	// 8 hex-ish chars give enough space that 100 draws should not collide.
	assert.Greater(t, len(seen), 95)
}

func TestHashToken(t *testing.T) {
	h1 := HashToken("secret-token")
	h2 := HashToken("secret-token")
	h3 := HashToken("other-token")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64) // sha256 hex
	assert.NotContains(t, h1, "secret")
}

func TestRandomHex(t *testing.T) {
	a, err := RandomHex(32)
	require.NoError(t, err)
	b, err := RandomHex(32)
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2!", 4)
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "hunter2!"))
	assert.False(t, VerifyPassword(hash, "hunter3!"))
}
