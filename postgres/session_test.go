package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSessionToken(t *testing.T) {
	token, err := generateSessionToken(32)
	require.NoError(t, err)
	assert.Len(t, token, 64, "32 random bytes hex-encoded")

	other, err := generateSessionToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}
