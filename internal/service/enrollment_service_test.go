package service

import (
	"testing"

	"hopebridge_backend/internal/model"
	"hopebridge_backend/internal/repository"
	"hopebridge_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type enrollmentFixture struct {
	svc       *EnrollmentService
	courseSvc *CourseService
	db        *gorm.DB
	student   *model.User
	course    *model.Course
	lessons   []*model.Lesson
}

// newEnrollmentFixture 搭一个三课时的已发布课程与一名学员
func newEnrollmentFixture(t *testing.T) *enrollmentFixture {
	t.Helper()
	db := setupTestDB(t)

	courseRepo := repository.NewCourseRepository(db)
	courseSvc := NewCourseService(courseRepo, db, nil)
	svc := NewEnrollmentService(
		repository.NewEnrollmentRepository(db),
		repository.NewProgressRepository(db),
		courseRepo,
		db,
	)

	student := &model.User{FirstName: "Lena", LastName: "Ivanova", Email: "lena@example.org", Password: "x"}
	require.NoError(t, db.Create(student).Error)

	course, err := courseSvc.CreateCourse(&CreateCourseRequest{
		Title:     "Digital Literacy",
		Price:     2500,
		Published: true,
	})
	require.NoError(t, err)

	mod, err := courseSvc.CreateModule(course.ID, &ModuleRequest{Title: "Module 1"})
	require.NoError(t, err)

	var lessons []*model.Lesson
	for _, title := range []string{"Lesson A", "Lesson B", "Lesson C"} {
		lesson, err := courseSvc.CreateLesson(mod.ID, &LessonRequest{Title: title, DurationMin: 10})
		require.NoError(t, err)
		lessons = append(lessons, lesson)
	}

	return &enrollmentFixture{
		svc:       svc,
		courseSvc: courseSvc,
		db:        db,
		student:   student,
		course:    course,
		lessons:   lessons,
	}
}

func TestEnrollIdempotent(t *testing.T) {
	f := newEnrollmentFixture(t)

	first, err := f.svc.Enroll(f.student.ID, f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentActive, first.Status)
	assert.Equal(t, 0, first.Progress)

	second, err := f.svc.Enroll(f.student.ID, f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, f.db.Model(&model.Enrollment{}).
		Where("student_id = ? AND course_id = ?", f.student.ID, f.course.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestEnrollUnknownCourse(t *testing.T) {
	f := newEnrollmentFixture(t)

	_, err := f.svc.Enroll(f.student.ID, 9999)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestEnrollWithPayment(t *testing.T) {
	f := newEnrollmentFixture(t)

	enrollment, payment, err := f.svc.EnrollWithPayment(f.student.ID, f.course.ID, "usd", "pi_abc", "ord_ext_42")
	require.NoError(t, err)
	require.NotNil(t, payment)

	assert.Equal(t, f.course.Price, payment.Amount)
	assert.Equal(t, f.course.Title, payment.CourseTitle)
	assert.Equal(t, model.PaymentCompleted, payment.Status)
	// 回调传入的外部订单号原样落库
	assert.Equal(t, "ord_ext_42", payment.OrderID)
	assert.Equal(t, model.EnrollmentActive, enrollment.Status)

	// 重复购买不会产生第二条流水或报名
	again, payment2, err := f.svc.EnrollWithPayment(f.student.ID, f.course.ID, "usd", "pi_def", "ord_ext_43")
	require.NoError(t, err)
	assert.Equal(t, enrollment.ID, again.ID)
	assert.Nil(t, payment2)

	var paymentCount, enrollCount int64
	require.NoError(t, f.db.Model(&model.CoursePayment{}).Count(&paymentCount).Error)
	require.NoError(t, f.db.Model(&model.Enrollment{}).Count(&enrollCount).Error)
	assert.Equal(t, int64(1), paymentCount)
	assert.Equal(t, int64(1), enrollCount)
}

func TestEnrollWithPaymentGeneratedOrderID(t *testing.T) {
	f := newEnrollmentFixture(t)

	// 回调未带订单号时由服务端补一个
	_, payment, err := f.svc.EnrollWithPayment(f.student.ID, f.course.ID, "usd", "pi_abc", "")
	require.NoError(t, err)
	require.NotNil(t, payment)
	assert.NotEmpty(t, payment.OrderID)
}

func TestCompleteLessonProgression(t *testing.T) {
	f := newEnrollmentFixture(t)

	enrollment, err := f.svc.Enroll(f.student.ID, f.course.ID)
	require.NoError(t, err)

	// 3 课时：1/3 → 33，2/3 → 67，3/3 → 100
	updated, err := f.svc.CompleteLesson(f.student.ID, f.lessons[0].ID, 60)
	require.NoError(t, err)
	assert.Equal(t, 33, updated.Progress)
	assert.Equal(t, model.EnrollmentActive, updated.Status)

	updated, err = f.svc.CompleteLesson(f.student.ID, f.lessons[1].ID, 60)
	require.NoError(t, err)
	assert.Equal(t, 67, updated.Progress)

	updated, err = f.svc.CompleteLesson(f.student.ID, f.lessons[2].ID, 60)
	require.NoError(t, err)
	assert.Equal(t, 100, updated.Progress)
	assert.Equal(t, model.EnrollmentCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)

	_ = enrollment
}

func TestCompleteLessonRepeatIdempotent(t *testing.T) {
	f := newEnrollmentFixture(t)

	_, err := f.svc.Enroll(f.student.ID, f.course.ID)
	require.NoError(t, err)

	first, err := f.svc.CompleteLesson(f.student.ID, f.lessons[0].ID, 60)
	require.NoError(t, err)
	again, err := f.svc.CompleteLesson(f.student.ID, f.lessons[0].ID, 30)
	require.NoError(t, err)

	assert.Equal(t, first.Progress, again.Progress)

	// 重复上报累计学习时长但不重复计数
	var lp model.LessonProgress
	require.NoError(t, f.db.Where("enrollment_id = ? AND lesson_id = ?", first.ID, f.lessons[0].ID).First(&lp).Error)
	assert.True(t, lp.Completed)
	assert.Equal(t, 90, lp.TimeSpent)

	var count int64
	require.NoError(t, f.db.Model(&model.LessonProgress{}).
		Where("enrollment_id = ?", first.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCompleteLessonRequiresEnrollment(t *testing.T) {
	f := newEnrollmentFixture(t)

	_, err := f.svc.CompleteLesson(f.student.ID, f.lessons[0].ID, 10)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	_, err = f.svc.CompleteLesson(f.student.ID, 9999, 10)
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
}

func TestCompleteLessonUnpauses(t *testing.T) {
	f := newEnrollmentFixture(t)

	enrollment, err := f.svc.Enroll(f.student.ID, f.course.ID)
	require.NoError(t, err)

	paused, err := f.svc.Pause(f.student.ID, enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentPaused, paused.Status)

	updated, err := f.svc.CompleteLesson(f.student.ID, f.lessons[0].ID, 10)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentActive, updated.Status)
}

func TestPauseResume(t *testing.T) {
	f := newEnrollmentFixture(t)

	enrollment, err := f.svc.Enroll(f.student.ID, f.course.ID)
	require.NoError(t, err)

	paused, err := f.svc.Pause(f.student.ID, enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentPaused, paused.Status)

	resumed, err := f.svc.Resume(f.student.ID, enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentActive, resumed.Status)

	// 他人的报名不可见
	_, err = f.svc.Pause(f.student.ID+1, enrollment.ID)
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
}

func TestProgressUnknownEnrollment(t *testing.T) {
	f := newEnrollmentFixture(t)

	assert.Equal(t, 0, f.svc.Progress(424242))
}

func TestProgressSurvivesLessonChanges(t *testing.T) {
	f := newEnrollmentFixture(t)

	_, err := f.svc.Enroll(f.student.ID, f.course.ID)
	require.NoError(t, err)

	updated, err := f.svc.CompleteLesson(f.student.ID, f.lessons[0].ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 33, updated.Progress)

	// 课程新增课时后，下一次完成事件按新总数重算
	mod := f.lessons[0].ModuleID
	newLesson, err := f.courseSvc.CreateLesson(mod, &LessonRequest{Title: "Lesson D", DurationMin: 10})
	require.NoError(t, err)

	updated, err = f.svc.CompleteLesson(f.student.ID, newLesson.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 50, updated.Progress)
}
