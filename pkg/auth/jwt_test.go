package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_RoundTrip(t *testing.T) {
	generator, err := NewJWTGenerator(JWTGeneratorConfig{
		SecretKey: "test-secret",
		Issuer:    "yaplog-backend",
	})
	require.NoError(t, err)

	validator, err := NewJWTValidator(JWTConfig{
		SecretKey: "test-secret",
		Issuer:    "yaplog-backend",
	})
	require.NoError(t, err)

	token, err := generator.GenerateToken("user-1", "jordan@example.com", "Jordan")
	require.NoError(t, err)

	claims, err := validator.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "jordan@example.com", claims.Email)
	assert.Equal(t, "Jordan", claims.Name)
}

func TestJWT_ValidateToken_BearerPrefix(t *testing.T) {
	generator, err := NewJWTGenerator(JWTGeneratorConfig{SecretKey: "test-secret"})
	require.NoError(t, err)
	validator, err := NewJWTValidator(JWTConfig{SecretKey: "test-secret"})
	require.NoError(t, err)

	token, err := generator.GenerateToken("user-1", "jordan@example.com", "")
	require.NoError(t, err)

	claims, err := validator.ValidateToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestJWT_ValidateToken_WrongSecret(t *testing.T) {
	generator, err := NewJWTGenerator(JWTGeneratorConfig{SecretKey: "secret-a"})
	require.NoError(t, err)
	validator, err := NewJWTValidator(JWTConfig{SecretKey: "secret-b"})
	require.NoError(t, err)

	token, err := generator.GenerateToken("user-1", "jordan@example.com", "")
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	require.Error(t, err)
}

func TestJWT_ValidateToken_Expired(t *testing.T) {
	generator, err := NewJWTGenerator(JWTGeneratorConfig{
		SecretKey:  "test-secret",
		ExpiryTime: -time.Minute,
	})
	require.NoError(t, err)
	validator, err := NewJWTValidator(JWTConfig{SecretKey: "test-secret"})
	require.NoError(t, err)

	token, err := generator.GenerateToken("user-1", "jordan@example.com", "")
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWT_ValidateToken_Missing(t *testing.T) {
	validator, err := NewJWTValidator(JWTConfig{SecretKey: "test-secret"})
	require.NoError(t, err)

	_, err = validator.ValidateToken("  ")
	assert.ErrorIs(t, err, ErrMissingToken)
}
