package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tenurehq/tenure-backend/internal/auth/service"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := service.HashPassword("correct horse battery staple", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, service.VerifyPassword(hash, "correct horse battery staple"))
	assert.False(t, service.VerifyPassword(hash, "wrong password"))
	assert.False(t, service.VerifyPassword(hash, ""))
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	// A corrupted credential row must behave like a wrong password, never
	// like an internal failure.
	assert.False(t, service.VerifyPassword("", "anything"))
	assert.False(t, service.VerifyPassword("not-a-bcrypt-hash", "anything"))
	assert.False(t, service.VerifyPassword("$2a$10$truncated", "anything"))
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	h1, err := service.HashPassword("same password", bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := service.HashPassword("same password", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, service.VerifyPassword(h1, "same password"))
	assert.True(t, service.VerifyPassword(h2, "same password"))
}
