package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashSecretSaltsEveryCall(t *testing.T) {
	h1, err := HashSecret("hunter2swordfish", bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := HashSecret("hunter2swordfish", bcrypt.MinCost)
	require.NoError(t, err)

	require.NotEqual(t, h1, h2)
	require.True(t, VerifySecret(h1, "hunter2swordfish"))
	require.True(t, VerifySecret(h2, "hunter2swordfish"))
	require.False(t, VerifySecret(h1, "wrong-password"))
}

func TestHashTokenHandlesLongTokens(t *testing.T) {
	// Signed tokens are far beyond bcrypt's 72-byte input limit; HashToken
	// must still round-trip them.
	raw := strings.Repeat("eyJhbGciOiJIUzI1NiJ9.", 20)
	h, err := HashToken(raw, bcrypt.MinCost)
	require.NoError(t, err)

	require.True(t, VerifyToken(h, raw))
	require.False(t, VerifyToken(h, raw+"x"))
}
