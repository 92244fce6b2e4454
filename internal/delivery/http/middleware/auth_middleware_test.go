package middleware

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"go-workwise-backend/internal/domain"
)

func TestRoleFromClaims(t *testing.T) {
	t.Run("registered account type seeds the local role", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub":           "u-1",
			"user_metadata": map[string]interface{}{"account_type": "employer"},
		}
		assert.Equal(t, domain.RoleEmployer, roleFromClaims(claims))

		claims["user_metadata"] = map[string]interface{}{"account_type": "worker"}
		assert.Equal(t, domain.RoleWorker, roleFromClaims(claims))
	})

	t.Run("admin never arrives through token metadata", func(t *testing.T) {
		claims := jwt.MapClaims{
			"user_metadata": map[string]interface{}{"account_type": "admin"},
		}
		assert.Equal(t, domain.Role(""), roleFromClaims(claims))
	})

	t.Run("missing or malformed metadata resolves to empty", func(t *testing.T) {
		assert.Equal(t, domain.Role(""), roleFromClaims(jwt.MapClaims{"sub": "u-1"}))
		assert.Equal(t, domain.Role(""), roleFromClaims(jwt.MapClaims{
			"user_metadata": map[string]interface{}{"account_type": 42},
		}))
		assert.Equal(t, domain.Role(""), roleFromClaims(jwt.MapClaims{
			"user_metadata": "not-a-map",
		}))
	})
}
