package service

import (
	"context"
	"testing"

	"hopebridge_backend/internal/model"
	"hopebridge_backend/internal/repository"
	"hopebridge_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPaymentService(t *testing.T) (*PaymentService, *fakePaymentClient, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	pc := &fakePaymentClient{}
	svc := NewPaymentService(
		repository.NewPaymentRepository(db),
		repository.NewCourseRepository(db),
		pc, "usd",
	)
	return svc, pc, db
}

func TestCreateCourseIntent(t *testing.T) {
	svc, pc, db := newPaymentService(t)

	course := &model.Course{Title: "Web Basics", Price: 4900, Published: true}
	require.NoError(t, db.Create(course).Error)

	resp, err := svc.CreateCourseIntent(context.Background(), course.ID, "Lena", "lena@example.org")
	require.NoError(t, err)
	assert.Equal(t, "pi_test_1", resp.PaymentID)

	require.Len(t, pc.requests, 1)
	req := pc.requests[0]
	assert.Equal(t, int64(4900), req.Amount)
	assert.Equal(t, "usd", req.Currency)
	assert.Equal(t, "course", req.Metadata["kind"])
}

func TestCreateCourseIntentUnknownCourse(t *testing.T) {
	svc, pc, _ := newPaymentService(t)

	_, err := svc.CreateCourseIntent(context.Background(), 424242, "Lena", "lena@example.org")
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
	assert.Empty(t, pc.requests)
}

func TestMarkRefunded(t *testing.T) {
	svc, _, db := newPaymentService(t)

	payment := &model.CoursePayment{
		OrderID:   "ord-1",
		StudentID: 1,
		CourseID:  1,
		Amount:    4900,
		Status:    model.PaymentCompleted,
	}
	require.NoError(t, db.Create(payment).Error)

	refunded, err := svc.MarkRefunded(payment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentRefunded, refunded.Status)

	// 流水行只改状态，永不删除
	var count int64
	require.NoError(t, db.Model(&model.CoursePayment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	_, err = svc.MarkRefunded(9999)
	assert.ErrorIs(t, err, util.ErrPaymentNotFound)
}

func TestListByStudentInsertionOrder(t *testing.T) {
	svc, _, db := newPaymentService(t)

	for _, p := range []*model.CoursePayment{
		{OrderID: "ord-1", StudentID: 1, CourseID: 1, Amount: 100},
		{OrderID: "ord-2", StudentID: 2, CourseID: 1, Amount: 200},
		{OrderID: "ord-3", StudentID: 1, CourseID: 2, Amount: 300},
	} {
		require.NoError(t, db.Create(p).Error)
	}

	payments, err := svc.ListByStudent(1)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, "ord-1", payments[0].OrderID)
	assert.Equal(t, "ord-3", payments[1].OrderID)
}
