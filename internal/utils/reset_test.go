package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResetToken(t *testing.T) {
	raw, hashed, err := NewResetToken()
	require.NoError(t, err)

	assert.Len(t, raw, 40, "20 random bytes hex encoded")
	assert.Len(t, hashed, 64, "sha256 hex digest")
	assert.NotEqual(t, raw, hashed)

	// A candidate token matches the stored hash only when hashed the same way.
	assert.Equal(t, hashed, HashResetToken(raw))
	assert.NotEqual(t, hashed, HashResetToken(raw+"x"))
}

func TestNewResetTokenUnique(t *testing.T) {
	raw1, _, err := NewResetToken()
	require.NoError(t, err)
	raw2, _, err := NewResetToken()
	require.NoError(t, err)

	assert.NotEqual(t, raw1, raw2)
}
