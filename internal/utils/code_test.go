package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecoveryCode_ShapeAndUniqueness(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code, err := NewRecoveryCode()
		require.NoError(t, err)
		assert.Len(t, code, recoveryCodeBytes*2)
		assert.Regexp(t, "^[0-9A-F]+$", code)
		seen[code] = true
	}
	// 100 draws from a 32-bit space colliding would point at a broken source.
	assert.Greater(t, len(seen), 95)
}

func TestHashRecoveryCode_CaseAndWhitespaceInsensitive(t *testing.T) {
	t.Parallel()

	h := HashRecoveryCode("AB12CD34")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashRecoveryCode("ab12cd34"))
	assert.Equal(t, h, HashRecoveryCode("  AB12CD34 "))
	assert.NotEqual(t, h, HashRecoveryCode("AB12CD35"))
}
