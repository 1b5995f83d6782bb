package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, "philagro")

	t.Run("round trip", func(t *testing.T) {
		signed, err := manager.Generate("ctx-123")
		require.NoError(t, err)

		contextID, err := manager.Validate(signed)
		require.NoError(t, err)
		assert.Equal(t, "ctx-123", contextID)
	})

	t.Run("wrong secret", func(t *testing.T) {
		signed, err := NewJWTManager("other-secret", time.Hour, "philagro").Generate("ctx-123")
		require.NoError(t, err)

		_, err = manager.Validate(signed)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		signed, err := NewJWTManager("test-secret", time.Hour, "someone-else").Generate("ctx-123")
		require.NoError(t, err)

		_, err = manager.Validate(signed)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewJWTManager("test-secret", time.Hour, "philagro")
		expired.nowFunc = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		signed, err := expired.Generate("ctx-123")
		require.NoError(t, err)

		_, err = manager.Validate(signed)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := manager.Validate("not.a.token")
		assert.Error(t, err)
	})
}
