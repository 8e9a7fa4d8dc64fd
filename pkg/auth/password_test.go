package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	assert.True(t, CheckPassword(hash, "correct horse battery"))
	assert.False(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword("", ""))
	assert.False(t, CheckPassword("not-a-bcrypt-hash", "correct horse battery"))

	again, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "salted hashes differ")

	_, err = HashPassword(strings.Repeat("x", MaxPasswordBytes+1))
	assert.ErrorContains(t, err, "exceeds 72 bytes")
}
