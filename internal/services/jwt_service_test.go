package services_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-api/internal/services"
)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := services.NewJWTService("secret", time.Hour)

	token, err := svc.GenerateToken("user-42", "u42@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.UserID)
	assert.Equal(t, "u42@example.com", claims.Email)
}

func TestJWTService_RejectsBadTokens(t *testing.T) {
	svc := services.NewJWTService("secret", time.Hour)

	other, err := services.NewJWTService("another-secret", time.Hour).GenerateToken("u1", "u1@example.com")
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": "u1"})
	noneToken, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "invalid.jwt.token",
		"wrong secret": other,
		"none alg":     noneToken,
	} {
		_, err := svc.ValidateToken(token)
		assert.ErrorIs(t, err, services.ErrInvalidToken, name)
	}
}

func TestJWTService_ExpiredToken(t *testing.T) {
	secret := []byte("secret")
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u1",
		"exp":     time.Now().Add(-time.Minute).Unix(),
	})
	signed, err := token.SignedString(secret)
	require.NoError(t, err)

	_, err = services.NewJWTService("secret", time.Hour).ValidateToken(signed)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestJWTService_ResolveUser(t *testing.T) {
	svc := services.NewJWTService("secret", time.Hour)
	token, err := svc.GenerateToken("u1", "u1@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/todos", nil)
	_, err = svc.ResolveUser(req)
	assert.ErrorIs(t, err, services.ErrAuthHeaderMissing)

	req.Header.Set("Authorization", "Token "+token)
	_, err = svc.ResolveUser(req)
	assert.ErrorIs(t, err, services.ErrInvalidTokenFormat)

	req.Header.Set("Authorization", "Bearer ")
	_, err = svc.ResolveUser(req)
	assert.ErrorIs(t, err, services.ErrInvalidTokenFormat)

	req.Header.Set("Authorization", "Bearer "+token)
	userID, err := svc.ResolveUser(req)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}
