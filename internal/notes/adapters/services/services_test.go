package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threadnotes/internal/notes/adapters/services"
	portservices "threadnotes/internal/notes/ports/services"
)

const testSecret = "test-secret-key"

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims *services.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func claimsFor(userID string, expiresIn time.Duration) *services.Claims {
	return &services.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestNewJWT(t *testing.T) {
	require.NotNil(t, services.NewJWT(testSecret))
}

func TestValidateAccessToken(t *testing.T) {
	ctx := context.Background()
	service := services.NewJWT(testSecret)

	t.Run("valid token", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), claimsFor("user-123", time.Hour))

		userID, err := service.ValidateAccessToken(ctx, token)

		require.NoError(t, err)
		assert.Equal(t, "user-123", userID)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), claimsFor("user-123", -time.Hour))

		_, err := service.ValidateAccessToken(ctx, token)

		require.Error(t, err)
		assert.ErrorIs(t, err, portservices.ErrExpiredJWTToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, []byte("another-secret"), claimsFor("user-123", time.Hour))

		_, err := service.ValidateAccessToken(ctx, token)

		assert.ErrorIs(t, err, portservices.ErrInvalidJWTToken)
	})

	t.Run("unsigned token is rejected", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, claimsFor("user-123", time.Hour))

		_, err := service.ValidateAccessToken(ctx, token)

		assert.ErrorIs(t, err, portservices.ErrInvalidJWTToken)
	})

	t.Run("empty user id", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), claimsFor("", time.Hour))

		_, err := service.ValidateAccessToken(ctx, token)

		assert.ErrorIs(t, err, portservices.ErrInvalidJWTToken)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := service.ValidateAccessToken(ctx, "not-a-jwt")

		assert.ErrorIs(t, err, portservices.ErrInvalidJWTToken)
	})
}
