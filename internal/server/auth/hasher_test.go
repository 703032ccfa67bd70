package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	hash, err := h.Hash("password1")
	require.NoError(t, err)
	assert.NotEqual(t, "password1", hash)

	ok, err := h.Verify(hash, "password1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(hash, "password2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBcryptHasher_CorruptHash(t *testing.T) {
	h, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	ok, err := h.Verify("garbage", "x")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestBcryptHasher_VerifyDummy(t *testing.T) {
	h, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	require.NotPanics(t, func() { h.VerifyDummy("anything") })
}

func TestNewBcryptHasher_InvalidCost(t *testing.T) {
	_, err := NewBcryptHasher(bcrypt.MaxCost + 1)
	assert.Error(t, err)
}
