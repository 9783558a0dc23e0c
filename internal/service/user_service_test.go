package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webslinger-cto/fieldserve-api/internal/auth"
	"github.com/webslinger-cto/fieldserve-api/internal/config"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"github.com/webslinger-cto/fieldserve-api/internal/repository"
	"github.com/webslinger-cto/fieldserve-api/internal/service"
	"github.com/webslinger-cto/fieldserve-api/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createUserService(t *testing.T, db *gorm.DB) *service.UserService {
	t.Helper()

	cfg := &config.AuthConfig{
		JWTSecret:  "test-signing-secret",
		Issuer:     "fieldserve-test",
		TokenTTL:   60,
		BcryptCost: 4, // min cost keeps hashing fast in tests
	}
	tokens, err := auth.NewTokenManager(cfg)
	require.NoError(t, err)
	return service.NewUserService(repository.NewUserRepository(db), tokens, cfg, zap.NewNop())
}

func TestUserCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createUserService(t, db)
	ctx := context.Background()

	t.Run("creates an active user with a hashed password", func(t *testing.T) {
		resp, err := svc.Create(ctx, &domain.CreateUserRequest{
			Email:       "dispatcher@fieldserve.dev",
			Password:    "correct horse",
			DisplayName: "Day Dispatcher",
			Role:        domain.RoleDispatcher,
		})
		require.NoError(t, err)
		assert.True(t, resp.IsActive)
		assert.Equal(t, domain.RoleDispatcher, resp.Role)

		var stored domain.User
		require.NoError(t, db.First(&stored, "id = ?", resp.ID).Error)
		assert.NotEqual(t, "correct horse", stored.PasswordHash)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		req := &domain.CreateUserRequest{
			Email:       "dup@fieldserve.dev",
			Password:    "password123",
			DisplayName: "First",
			Role:        domain.RoleTechnician,
		}
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)

		_, err = svc.Create(ctx, req)
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("rejects an unknown role", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.CreateUserRequest{
			Email:       "ghost@fieldserve.dev",
			Password:    "password123",
			DisplayName: "Ghost",
			Role:        "superuser",
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestUserLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createUserService(t, db)
	ctx := context.Background()

	_, err := svc.Create(ctx, &domain.CreateUserRequest{
		Email:       "tech@fieldserve.dev",
		Password:    "hunter22hunter22",
		DisplayName: "Night Tech",
		Role:        domain.RoleTechnician,
	})
	require.NoError(t, err)

	t.Run("valid credentials issue a token", func(t *testing.T) {
		resp, err := svc.Login(ctx, &domain.LoginRequest{
			Email:    "tech@fieldserve.dev",
			Password: "hunter22hunter22",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, domain.RoleTechnician, resp.User.Role)

		var stored domain.User
		require.NoError(t, db.First(&stored, "email = ?", "tech@fieldserve.dev").Error)
		assert.NotNil(t, stored.LastLoginAt)
	})

	t.Run("wrong password and unknown email fail identically", func(t *testing.T) {
		_, badPass := svc.Login(ctx, &domain.LoginRequest{
			Email:    "tech@fieldserve.dev",
			Password: "wrong",
		})
		_, badEmail := svc.Login(ctx, &domain.LoginRequest{
			Email:    "nobody@fieldserve.dev",
			Password: "hunter22hunter22",
		})
		assert.ErrorIs(t, badPass, service.ErrUnauthorized)
		assert.ErrorIs(t, badEmail, service.ErrUnauthorized)
		assert.Equal(t, badPass.Error(), badEmail.Error())
	})

	t.Run("deactivated accounts cannot log in", func(t *testing.T) {
		require.NoError(t, db.Model(&domain.User{}).
			Where("email = ?", "tech@fieldserve.dev").
			Update("is_active", false).Error)

		_, err := svc.Login(ctx, &domain.LoginRequest{
			Email:    "tech@fieldserve.dev",
			Password: "hunter22hunter22",
		})
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})
}
