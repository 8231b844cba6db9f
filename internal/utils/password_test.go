package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_VerifyRoundtrip(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "s3cret "))
	assert.False(t, VerifyPassword(hash, "other"))
}

func TestHashPassword_Salted(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("same-input", bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := HashPassword("same-input", bcrypt.MinCost)
	require.NoError(t, err)

	// Distinct salt per call: identical input, different hashes, both verify.
	assert.NotEqual(t, h1, h2)
	assert.True(t, VerifyPassword(h1, "same-input"))
	assert.True(t, VerifyPassword(h2, "same-input"))
}

func TestHashPassword_EmptyPlaintextIsValidInput(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, ""))
	assert.False(t, VerifyPassword(hash, "x"))
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	for _, bad := range []string{"", "not-a-bcrypt-hash", "$2a$xx$garbage", "plaintext"} {
		assert.False(t, VerifyPassword(bad, "whatever"), "hash=%q", bad)
	}
}

func TestHashPassword_OutOfRangeCostFallsBack(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("pw", 99)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
