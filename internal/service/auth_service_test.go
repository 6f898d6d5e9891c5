package service

import (
	"testing"
	"time"

	"academy_backend/internal/config"
	"academy_backend/internal/repository"
	"academy_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-that-is-long-enough-for-hmac"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestAuthService(t)

	user, err := svc.Register("Ada", "ada@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "correct horse battery", user.Password)

	loggedIn, token, err := svc.Login("ada@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token)

	claims, err := util.ParseJWT(token, svc.Config.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Register("Ada", "ada@example.com", "password one")
	require.NoError(t, err)

	_, err = svc.Register("Imposter", "ada@example.com", "password two")
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Register("Ada", "ada@example.com", "the right password")
	require.NoError(t, err)

	_, _, err = svc.Login("ada@example.com", "the wrong password")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	// Unknown email collapses to the same error as a wrong password.
	_, _, err = svc.Login("nobody@example.com", "anything")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}
