package auth_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webslinger-cto/fieldserve-api/internal/auth"
	"github.com/webslinger-cto/fieldserve-api/internal/config"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens, err := auth.NewTokenManager(&config.AuthConfig{
		JWTSecret: "test-signing-secret",
		Issuer:    "fieldserve-test",
		TokenTTL:  60,
	})
	require.NoError(t, err)

	user := &domain.User{
		Email:       "round@fieldserve.dev",
		DisplayName: "Round Trip",
		Role:        domain.RoleSalesperson,
	}
	user.ID = uuid.New()

	signed, expiresAt, err := tokens.IssueToken(user)
	require.NoError(t, err)
	assert.False(t, expiresAt.IsZero())

	userCtx, err := tokens.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userCtx.UserID)
	assert.Equal(t, user.Email, userCtx.Email)
	assert.Equal(t, domain.RoleSalesperson, userCtx.Role)
	assert.Equal(t, domain.RoleSalesperson, userCtx.EffectiveRole)
}

func TestTokenValidation(t *testing.T) {
	tokens, err := auth.NewTokenManager(&config.AuthConfig{
		JWTSecret: "test-signing-secret",
		Issuer:    "fieldserve-test",
		TokenTTL:  60,
	})
	require.NoError(t, err)

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		other, err := auth.NewTokenManager(&config.AuthConfig{
			JWTSecret: "different-secret",
			Issuer:    "fieldserve-test",
			TokenTTL:  60,
		})
		require.NoError(t, err)

		user := &domain.User{Role: domain.RoleAdmin}
		user.ID = uuid.New()
		signed, _, err := other.IssueToken(user)
		require.NoError(t, err)

		_, err = tokens.ValidateToken(signed)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects a token from another issuer", func(t *testing.T) {
		other, err := auth.NewTokenManager(&config.AuthConfig{
			JWTSecret: "test-signing-secret",
			Issuer:    "someone-else",
			TokenTTL:  60,
		})
		require.NoError(t, err)

		user := &domain.User{Role: domain.RoleAdmin}
		user.ID = uuid.New()
		signed, _, err := other.IssueToken(user)
		require.NoError(t, err)

		_, err = tokens.ValidateToken(signed)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		expired, err := auth.NewTokenManager(&config.AuthConfig{
			JWTSecret: "test-signing-secret",
			Issuer:    "fieldserve-test",
			TokenTTL:  -1,
		})
		require.NoError(t, err)

		user := &domain.User{Role: domain.RoleAdmin}
		user.ID = uuid.New()
		signed, _, err := expired.IssueToken(user)
		require.NoError(t, err)

		_, err = tokens.ValidateToken(signed)
		assert.ErrorIs(t, err, auth.ErrExpiredToken)
	})

	t.Run("requires a configured secret", func(t *testing.T) {
		_, err := auth.NewTokenManager(&config.AuthConfig{})
		assert.Error(t, err)
	})
}
