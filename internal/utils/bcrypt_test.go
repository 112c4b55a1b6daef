package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	stored, err := HashPassword("senha123")
	require.NoError(t, err)
	assert.NotEqual(t, "senha123", stored)
	assert.True(t, strings.HasPrefix(stored, "$2"))

	assert.True(t, CheckPasswordHash("senha123", stored))
	assert.False(t, CheckPasswordHash("senha124", stored))
	assert.False(t, CheckPasswordHash("senha123", "not-a-bcrypt-hash"))
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a1", 36))
	assert.NoError(t, err)

	_, err = HashPassword(strings.Repeat("a1", 36) + "x")
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = BcryptHasher{}.Hash(strings.Repeat("senha1", 14))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	stored, err := PlainHasher{}.Hash(strings.Repeat("senha1", 14))
	assert.NoError(t, err)
	assert.Len(t, stored, 84)
}

func TestNewPasswordHasher(t *testing.T) {
	plain := NewPasswordHasher(HashingPlain)
	stored, err := plain.Hash("abc123")
	assert.NoError(t, err)
	assert.Equal(t, "abc123", stored)
	assert.True(t, plain.Matches("abc123", stored))
	assert.False(t, plain.Matches("abc124", stored))

	assert.IsType(t, PlainHasher{}, NewPasswordHasher("rot13"))

	hasher := NewPasswordHasher(HashingBcrypt)
	stored, err = hasher.Hash("abc123")
	assert.NoError(t, err)
	assert.NotEqual(t, "abc123", stored)
	assert.True(t, hasher.Matches("abc123", stored))
	assert.False(t, hasher.Matches("abc123", "abc123"))
}
