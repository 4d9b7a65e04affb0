package service

import (
	"testing"

	"hopebridge_backend/internal/model"
	"hopebridge_backend/internal/repository"
	"hopebridge_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVolunteerService(t *testing.T) (*VolunteerService, *fakeMailClient) {
	db := setupTestDB(t)
	mc := &fakeMailClient{}
	return NewVolunteerService(repository.NewVolunteerRepository(db), mc), mc
}

func TestApply(t *testing.T) {
	svc, _ := newVolunteerService(t)

	app, err := svc.Apply(&ApplyRequest{
		Name:      "Carlos Reyes",
		Email:     "carlos@example.org",
		Interests: "tutoring,events",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationPending, app.Status)

	// 同一邮箱的未审结申请阻止重复提交
	_, err = svc.Apply(&ApplyRequest{Name: "Carlos Reyes", Email: "carlos@example.org"})
	assert.ErrorIs(t, err, util.ErrApplicationExists)
}

func TestReview(t *testing.T) {
	svc, mc := newVolunteerService(t)

	app, err := svc.Apply(&ApplyRequest{Name: "Ana", Email: "ana@example.org"})
	require.NoError(t, err)

	approved, err := svc.Review(app.ID, true)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationApproved, approved.Status)
	assert.Equal(t, 1, mc.sentCount())

	// 审结后同邮箱可以再次申请
	_, err = svc.Apply(&ApplyRequest{Name: "Ana", Email: "ana@example.org"})
	assert.NoError(t, err)

	_, err = svc.Review(9999, false)
	assert.ErrorIs(t, err, util.ErrApplicationNotFound)
}

func TestListByStatus(t *testing.T) {
	svc, _ := newVolunteerService(t)

	a, err := svc.Apply(&ApplyRequest{Name: "A", Email: "a@example.org"})
	require.NoError(t, err)
	_, err = svc.Apply(&ApplyRequest{Name: "B", Email: "b@example.org"})
	require.NoError(t, err)

	_, err = svc.Review(a.ID, false)
	require.NoError(t, err)

	pending, err := svc.List(model.ApplicationPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	all, err := svc.List("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
