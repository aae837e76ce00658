package auth

import (
	"testing"

	"safespace_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheck(t *testing.T) {
	hash, err := HashPassword("super_password123")
	require.NoError(t, err)
	assert.NotEqual(t, "super_password123", hash)

	assert.True(t, CheckPasswordHash("super_password123", hash))
	assert.False(t, CheckPasswordHash("wrong_password", hash))
}

func TestHash_NotDeterministic(t *testing.T) {
	h1, err := HashPassword("same_password")
	require.NoError(t, err)
	h2, err := HashPassword("same_password")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("123456"))
	assert.NoError(t, ValidatePassword("a much longer password"))

	err := ValidatePassword("12345")
	assert.ErrorIs(t, err, apperrors.ErrWeakPassword)
}
