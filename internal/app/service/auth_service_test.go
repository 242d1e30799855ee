package service

import (
	"context"
	"testing"
	"time"

	"github.com/bellavista/bellavista-backend/config"
	"github.com/bellavista/bellavista-backend/internal/app/model"
	"github.com/bellavista/bellavista-backend/internal/app/repository"
	"github.com/bellavista/bellavista-backend/internal/db"
	"github.com/bellavista/bellavista-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthTest(t *testing.T) (*gorm.DB, AuthService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	jwtCfg := &config.JWTConfig{
		Secret:            "test-secret",
		AccessTokenExpiry: time.Hour,
	}
	svc := NewAuthService(repository.NewUserRepository(testDB), jwtCfg)
	return testDB, svc
}

func TestAuthService_Register(t *testing.T) {
	testDB, svc := setupAuthTest(t)
	defer db.CleanupTestDB(testDB)

	result, err := svc.Register("diner@example.com", "password123", "Diner", "555-0101")
	require.NoError(t, err)

	assert.NotZero(t, result.User.ID)
	assert.Equal(t, model.RoleUser, result.User.Role)
	assert.NotEmpty(t, result.Token)
	assert.NotEqual(t, "password123", result.User.PasswordHash)

	claims, err := util.ValidateToken(result.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, "diner@example.com", claims.Email)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	testDB, svc := setupAuthTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.Register("diner@example.com", "password123", "Diner", "")
	require.NoError(t, err)

	_, err = svc.Register("diner@example.com", "different456", "Other", "")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	testDB, svc := setupAuthTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.Register("diner@example.com", "password123", "Diner", "")
	require.NoError(t, err)

	result, err := svc.Login("diner@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	_, err = svc.Login("diner@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_LogoutInvalidTokenIsNoop(t *testing.T) {
	testDB, svc := setupAuthTest(t)
	defer db.CleanupTestDB(testDB)

	// Malformed tokens need no revocation.
	assert.NoError(t, svc.Logout(context.Background(), "not-a-token"))
}

func TestAuthService_GetProfile(t *testing.T) {
	testDB, svc := setupAuthTest(t)
	defer db.CleanupTestDB(testDB)

	result, err := svc.Register("diner@example.com", "password123", "Diner", "")
	require.NoError(t, err)

	user, err := svc.GetProfile(result.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Diner", user.Name)

	_, err = svc.GetProfile(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
