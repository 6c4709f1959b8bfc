// File: internal/auth/token_service_test.go
package auth

import (
	"context"
	"testing"
	"time"

	"carsouq_backend/internal/config"
	"carsouq_backend/internal/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestJWTService(t *testing.T) shared.TokenService {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:       "test-secret-key-for-unit-tests",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	}
	return NewJWTService(cfg, zap.NewNop())
}

func testUser() *shared.User {
	return &shared.User{
		ID:    uuid.New(),
		Email: "seller@example.com",
		Role:  "user",
	}
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	svc := newTestJWTService(t)
	u := testUser()

	tokenString, expiresAt, err := svc.GenerateAccessToken(u)
	require.NoError(t, err)
	assert.NotEmpty(t, tokenString)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, u.Email, claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.NotEmpty(t, claims.ID, "access tokens carry a jti for revocation")
}

func TestValidateTokenRejectsRefreshToken(t *testing.T) {
	svc := newTestJWTService(t)
	u := testUser()

	refreshToken, _, err := svc.GenerateRefreshToken(u)
	require.NoError(t, err)

	_, err = svc.ValidateToken(refreshToken)
	assert.Error(t, err, "refresh tokens must not authenticate requests")
}

func TestParseRefreshTokenRejectsAccessToken(t *testing.T) {
	svc := newTestJWTService(t)
	u := testUser()

	accessToken, _, err := svc.GenerateAccessToken(u)
	require.NoError(t, err)

	_, err = svc.ParseRefreshToken(accessToken)
	assert.Error(t, err, "access tokens must not pass as refresh tokens")

	refreshToken, _, err := svc.GenerateRefreshToken(u)
	require.NoError(t, err)
	claims, err := svc.ParseRefreshToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc := newTestJWTService(t)
	other := NewJWTService(&config.Config{
		JWTSecret:       "a-completely-different-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	}, zap.NewNop())

	tokenString, _, err := other.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestInMemoryBlocklist(t *testing.T) {
	ctx := context.Background()
	bl := NewInMemoryBlocklist(time.Minute)

	assert.False(t, bl.IsBlocked(ctx, "some-jti"))

	require.NoError(t, bl.Add(ctx, "some-jti", time.Now().Add(time.Hour)))
	assert.True(t, bl.IsBlocked(ctx, "some-jti"))

	// Already expired tokens are not worth tracking.
	require.NoError(t, bl.Add(ctx, "expired-jti", time.Now().Add(-time.Minute)))
	assert.False(t, bl.IsBlocked(ctx, "expired-jti"))
}
