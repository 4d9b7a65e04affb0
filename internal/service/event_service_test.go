package service

import (
	"testing"
	"time"

	"hopebridge_backend/internal/model"
	"hopebridge_backend/internal/repository"
	"hopebridge_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newEventService(t *testing.T) (*EventService, *fakeMailClient, *gorm.DB) {
	db := setupTestDB(t)
	mc := &fakeMailClient{}
	svc := NewEventService(repository.NewEventRepository(db), repository.NewUserRepository(db), mc)
	return svc, mc, db
}

func seedEventUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{FirstName: "Test", LastName: "User", Email: email, Password: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedEvent(t *testing.T, svc *EventService, capacity int, published bool) *model.Event {
	t.Helper()
	event, err := svc.CreateEvent(&EventRequest{
		Title:     "Community Fundraiser",
		Location:  "City Hall",
		StartsAt:  time.Now().Add(24 * time.Hour),
		EndsAt:    time.Now().Add(26 * time.Hour),
		Capacity:  capacity,
		Published: published,
	})
	require.NoError(t, err)
	return event
}

func TestEventRegister(t *testing.T) {
	svc, mc, db := newEventService(t)
	event := seedEvent(t, svc, 0, true)
	user := seedEventUser(t, db, "attendee@example.org")

	reg, err := svc.Register(event.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, event.ID, reg.EventID)
	assert.Equal(t, 1, mc.sentCount())

	// 重复报名返回原记录，不再发确认邮件
	again, err := svc.Register(event.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, again.ID)
	assert.Equal(t, 1, mc.sentCount())
}

func TestEventRegisterUnpublished(t *testing.T) {
	svc, _, db := newEventService(t)
	event := seedEvent(t, svc, 0, false)
	user := seedEventUser(t, db, "early@example.org")

	_, err := svc.Register(event.ID, user.ID)
	assert.ErrorIs(t, err, util.ErrEventNotPublished)
}

func TestEventCapacity(t *testing.T) {
	svc, _, db := newEventService(t)
	event := seedEvent(t, svc, 2, true)

	u1 := seedEventUser(t, db, "one@example.org")
	u2 := seedEventUser(t, db, "two@example.org")
	u3 := seedEventUser(t, db, "three@example.org")

	_, err := svc.Register(event.ID, u1.ID)
	require.NoError(t, err)
	_, err = svc.Register(event.ID, u2.ID)
	require.NoError(t, err)

	_, err = svc.Register(event.ID, u3.ID)
	assert.ErrorIs(t, err, util.ErrEventFull)

	// 有人取消后名额释放
	require.NoError(t, svc.Cancel(event.ID, u1.ID))
	_, err = svc.Register(event.ID, u3.ID)
	assert.NoError(t, err)
}

func TestEventAttendees(t *testing.T) {
	svc, _, db := newEventService(t)
	event := seedEvent(t, svc, 0, true)

	u1 := seedEventUser(t, db, "a@example.org")
	u2 := seedEventUser(t, db, "b@example.org")
	_, err := svc.Register(event.ID, u1.ID)
	require.NoError(t, err)
	_, err = svc.Register(event.ID, u2.ID)
	require.NoError(t, err)

	regs, err := svc.Attendees(event.ID)
	require.NoError(t, err)
	require.Len(t, regs, 2)
	assert.Equal(t, "a@example.org", regs[0].User.Email)

	_, err = svc.Attendees(9999)
	assert.ErrorIs(t, err, util.ErrEventNotFound)
}

func TestListUpcomingExcludesPastAndDrafts(t *testing.T) {
	svc, _, _ := newEventService(t)
	seedEvent(t, svc, 0, true)
	seedEvent(t, svc, 0, false)

	past, err := svc.CreateEvent(&EventRequest{
		Title:     "Past Event",
		StartsAt:  time.Now().Add(-48 * time.Hour),
		EndsAt:    time.Now().Add(-46 * time.Hour),
		Published: true,
	})
	require.NoError(t, err)
	_ = past

	upcoming, err := svc.ListUpcoming()
	require.NoError(t, err)
	assert.Len(t, upcoming, 1)

	all, err := svc.ListAll()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
