package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/personal_ledger/internal/apperrors"
	"github.com/SscSPs/personal_ledger/internal/core/services"
	"github.com/SscSPs/personal_ledger/internal/dto"
	"github.com/SscSPs/personal_ledger/internal/platform/config"
	"github.com/SscSPs/personal_ledger/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", JWTExpiryDuration: time.Hour, JWTIssuer: "personal-ledger"}
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	container := services.NewServiceContainer(testConfig(), store.providers(), services.WithClock(fixedClock))

	user, err := container.Auth.Register(ctx, dto.RegisterRequest{Username: "alice", Password: "s3cret!", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", user.PasswordHash)
	assert.NotEmpty(t, store.categories, "registration seeds default categories")

	_, err = container.Auth.Register(ctx, dto.RegisterRequest{Username: "alice", Password: "other1"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	loggedIn, token, expiresAt, err := container.Auth.Login(ctx, dto.LoginRequest{Username: "alice", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, user.UserID, loggedIn.UserID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := utils.ParseAndValidateJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.UserID, claims.Subject)

	_, _, _, err = container.Auth.Login(ctx, dto.LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, _, _, err = container.Auth.Login(ctx, dto.LoginRequest{Username: "bob", Password: "s3cret!"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_RegisterSurvivesSeedingFailure(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.failOn["SaveCategoriesInTx"] = assert.AnError
	container := services.NewServiceContainer(testConfig(), store.providers())

	user, err := container.Auth.Register(ctx, dto.RegisterRequest{Username: "carol", Password: "pass123"})
	require.NoError(t, err)
	assert.Contains(t, store.users, user.UserID)
	assert.Empty(t, store.categories)
}

func TestAuthService_RegisterSaveError(t *testing.T) {
	store := newMemStore()
	store.failOn["SaveUser"] = assert.AnError
	container := services.NewServiceContainer(testConfig(), store.providers())

	_, err := container.Auth.Register(context.Background(), dto.RegisterRequest{Username: "dave", Password: "pass123"})
	assert.ErrorIs(t, err, assert.AnError)
}
