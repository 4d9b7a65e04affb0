package service

import (
	"testing"
	"time"

	"hopebridge_backend/internal/config"
	"hopebridge_backend/internal/model"
	"hopebridge_backend/internal/repository"
	"hopebridge_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) (*AuthService, *repository.UserRepository) {
	db := setupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-at-least-32-characters!!"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(userRepo, cfg), userRepo
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, userRepo := newAuthService(t)

	user := &model.User{
		FirstName: "Amara",
		LastName:  "Okafor",
		Email:     "amara@example.org",
		Password:  "plaintext-password",
	}
	require.NoError(t, svc.Register(user))

	stored, err := userRepo.FindByEmail("amara@example.org")
	require.NoError(t, err)
	assert.NotEqual(t, "plaintext-password", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("plaintext-password")))
	assert.Equal(t, model.Student, stored.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	first := &model.User{FirstName: "A", LastName: "B", Email: "dup@example.org", Password: "pw123456"}
	require.NoError(t, svc.Register(first))

	second := &model.User{FirstName: "C", LastName: "D", Email: "dup@example.org", Password: "pw123456"}
	err := svc.Register(second)
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestLogin(t *testing.T) {
	svc, userRepo := newAuthService(t)

	user := &model.User{FirstName: "A", LastName: "B", Email: "login@example.org", Password: "correct-horse"}
	require.NoError(t, svc.Register(user))

	token, err := svc.Login("login@example.org", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := util.ParseJWT(token, "test-secret-at-least-32-characters!!")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	stored, err := userRepo.FindByEmail("login@example.org")
	require.NoError(t, err)
	assert.False(t, stored.LastLogin.IsZero())
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthService(t)

	user := &model.User{FirstName: "A", LastName: "B", Email: "wrong@example.org", Password: "right-pw"}
	require.NoError(t, svc.Register(user))

	_, err := svc.Login("wrong@example.org", "bad-pw")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, err = svc.Login("nobody@example.org", "right-pw")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestLoginDisabledAccount(t *testing.T) {
	svc, userRepo := newAuthService(t)

	user := &model.User{FirstName: "A", LastName: "B", Email: "off@example.org", Password: "pw123456"}
	require.NoError(t, svc.Register(user))

	stored, err := userRepo.FindByEmail("off@example.org")
	require.NoError(t, err)
	stored.Disabled = true
	require.NoError(t, userRepo.Update(stored))

	_, err = svc.Login("off@example.org", "pw123456")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}
