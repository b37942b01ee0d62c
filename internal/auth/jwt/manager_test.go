package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenurehq/tenure-backend/internal/auth/jwt"
	"github.com/tenurehq/tenure-backend/pkg/config"
	"github.com/tenurehq/tenure-backend/pkg/errors"
)

func newManager() *jwt.Manager {
	return jwt.NewManager(&config.JWTConfig{
		Secret:       "test-secret-at-least-32-characters!!",
		Issuer:       "tenure-test",
		AccessExpiry: 15 * time.Minute,
	})
}

func TestManager_GenerateTokenPair(t *testing.T) {
	m := newManager()

	user := &jwt.UserInfo{EmpNo: 1001, Username: "jperez", Name: "Juan Perez"}
	pair, err := m.GenerateTokenPair(user, "sess-1", 8*time.Hour)
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), pair.ExpiresAt, 5*time.Second)

	t.Run("access token round-trips its claims", func(t *testing.T) {
		claims, err := m.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, 1001, claims.EmpNo)
		assert.Equal(t, "jperez", claims.Username)
		assert.Equal(t, "Juan Perez", claims.Name)
		assert.Equal(t, "1001", claims.Subject)
		assert.Equal(t, "tenure-test", claims.Issuer)
	})

	t.Run("refresh token carries the session id", func(t *testing.T) {
		claims, err := m.ValidateRefreshToken(pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, 1001, claims.EmpNo)
		assert.Equal(t, "sess-1", claims.SessionID)
	})
}

func TestManager_ValidateAccessToken(t *testing.T) {
	m := newManager()

	t.Run("garbage token is invalid", func(t *testing.T) {
		_, err := m.ValidateAccessToken("not.a.token")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrTokenInvalid))
	})

	t.Run("token signed with a different secret is rejected", func(t *testing.T) {
		other := jwt.NewManager(&config.JWTConfig{
			Secret:       "a-completely-different-secret-value",
			Issuer:       "tenure-test",
			AccessExpiry: 15 * time.Minute,
		})
		pair, err := other.GenerateTokenPair(&jwt.UserInfo{EmpNo: 1, Username: "x", Name: "X"}, "s", time.Hour)
		require.NoError(t, err)

		_, err = m.ValidateAccessToken(pair.AccessToken)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrTokenInvalid))
	})

	t.Run("expired token reports expiry", func(t *testing.T) {
		expired := jwt.NewManager(&config.JWTConfig{
			Secret:       "test-secret-at-least-32-characters!!",
			Issuer:       "tenure-test",
			AccessExpiry: -time.Minute,
		})
		pair, err := expired.GenerateTokenPair(&jwt.UserInfo{EmpNo: 1, Username: "x", Name: "X"}, "s", time.Hour)
		require.NoError(t, err)

		_, err = m.ValidateAccessToken(pair.AccessToken)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrTokenExpired))
	})
}
