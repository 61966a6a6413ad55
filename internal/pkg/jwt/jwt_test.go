package jwt

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-reconciler/internal/domain/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

func TestJWTService_GenerateAccessToken(t *testing.T) {
	// Arrange
	svc := NewJWTService(testSecret, "1h")

	// Act
	token, expiresAt, err := svc.GenerateAccessToken("user-1", auth.RoleManager)

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), expiresAt, 5)

	parsed, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := parsed.AsMap(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "manager", claims["role"])
	assert.Equal(t, "access", claims["type"])
}

func TestJWTService_GenerateAccessToken_InvalidExpiration(t *testing.T) {
	svc := NewJWTService(testSecret, "soon")

	_, _, err := svc.GenerateAccessToken("user-1", auth.RoleOwner)

	assert.Error(t, err)
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	token, _, err := NewJWTService("another-secret", "1h").GenerateAccessToken("user-1", auth.RoleOwner)
	require.NoError(t, err)

	_, err = NewJWTService(testSecret, "1h").JWTAuth().Decode(token)

	assert.Error(t, err)
}

func TestJWTService_RevokeToken(t *testing.T) {
	svc := NewJWTService(testSecret, "1h").(*JWTService)
	token, _, err := svc.GenerateAccessToken("user-1", auth.RoleOwner)
	require.NoError(t, err)
	other, _, err := svc.GenerateAccessToken("user-2", auth.RoleOwner)
	require.NoError(t, err)

	assert.False(t, svc.IsTokenRevoked(token))
	svc.RevokeToken(token)
	assert.True(t, svc.IsTokenRevoked(token))
	assert.False(t, svc.IsTokenRevoked(other))
}

func TestJWTService_RevokeToken_PrunesExpiredEntries(t *testing.T) {
	svc := NewJWTService(testSecret, "1h").(*JWTService)
	svc.revokedTokens["stale"] = time.Now().Add(-time.Minute).Unix()

	svc.RevokeToken("not-a-jwt")

	assert.False(t, svc.IsTokenRevoked("stale"))
	assert.True(t, svc.IsTokenRevoked("not-a-jwt"))
}
