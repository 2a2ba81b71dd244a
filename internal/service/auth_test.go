package service

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"clinicapi/internal/config"
)

func authConfig(t *testing.T, password string) config.AuthConfig {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return config.AuthConfig{
		Username:     "doctor",
		PasswordHash: string(hash),
		JWTSecret:    "test-secret",
		TokenTTLMin:  60,
	}
}

func TestAuthService_Login(t *testing.T) {
	cfg := authConfig(t, "s3creto")
	svc := NewAuthService(cfg)

	t.Run("valid credential issues a verifiable token", func(t *testing.T) {
		signed, err := svc.Login("doctor", "s3creto")
		require.NoError(t, err)
		require.NotEmpty(t, signed)

		token, err := jwt.Parse(signed, func(tok *jwt.Token) (any, error) {
			return []byte(cfg.JWTSecret), nil
		})
		require.NoError(t, err)
		assert.True(t, token.Valid)

		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, "doctor", claims["sub"])
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login("doctor", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong username", func(t *testing.T) {
		_, err := svc.Login("admin", "s3creto")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unconfigured credential rejects everyone", func(t *testing.T) {
		empty := NewAuthService(config.AuthConfig{})
		_, err := empty.Login("doctor", "s3creto")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
