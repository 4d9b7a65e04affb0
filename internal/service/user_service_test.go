package service

import (
	"testing"

	"hopebridge_backend/internal/model"
	"hopebridge_backend/internal/repository"
	"hopebridge_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newUserService(t *testing.T) (*UserService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewUserService(repository.NewUserRepository(db), nil), db
}

func seedUser(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &model.User{
		FirstName: "Mara",
		LastName:  "Okafor",
		Email:     "mara@example.org",
		Password:  string(hashed),
		Role:      model.Student,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestUpdateProfilePartial(t *testing.T) {
	svc, db := newUserService(t)
	user := seedUser(t, db)

	first := "Marangu"
	updated, err := svc.UpdateProfile(user.ID, &UpdateProfileRequest{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Marangu", updated.FirstName)
	// 未传的字段保持原值
	assert.Equal(t, "Okafor", updated.LastName)
	assert.Equal(t, user.Password, updated.Password)
}

func TestUpdateProfilePassword(t *testing.T) {
	svc, db := newUserService(t)
	user := seedUser(t, db)

	newPassword := "new-password"
	updated, err := svc.UpdateProfile(user.ID, &UpdateProfileRequest{Password: &newPassword})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("new-password")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("old-password")))

	// 空密码不触发重置
	empty := ""
	again, err := svc.UpdateProfile(user.ID, &UpdateProfileRequest{Password: &empty})
	require.NoError(t, err)
	assert.Equal(t, updated.Password, again.Password)
}

func TestSetDisabledAndRole(t *testing.T) {
	svc, db := newUserService(t)
	user := seedUser(t, db)

	disabled, err := svc.SetDisabled(user.ID, true)
	require.NoError(t, err)
	assert.True(t, disabled.Disabled)

	promoted, err := svc.SetRole(user.ID, model.Staff)
	require.NoError(t, err)
	assert.Equal(t, model.Staff, promoted.Role)

	_, err = svc.Get(9999)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}
