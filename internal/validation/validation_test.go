package validation

import (
	"testing"

	domain "philagro/backend/internal/domain/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStruct(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		err := Struct(domain.Credentials{Email: "alice@example.com", Password: "secret"})
		assert.NoError(t, err)
	})

	t.Run("missing fields", func(t *testing.T) {
		err := Struct(domain.Credentials{})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "email is required", verr.Fields["email"])
		assert.Equal(t, "password is required", verr.Fields["password"])
		assert.Equal(t, "email is required; password is required", verr.Error())
	})

	t.Run("malformed email", func(t *testing.T) {
		err := Struct(domain.Credentials{Email: "alice", Password: "secret"})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "email must be a valid email", verr.Fields["email"])
	})
}
