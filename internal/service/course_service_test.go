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

func newCourseService(t *testing.T) (*CourseService, *gorm.DB) {
	db := setupTestDB(t)
	return NewCourseService(repository.NewCourseRepository(db), db, nil), db
}

func seedCourse(t *testing.T, svc *CourseService) *model.Course {
	t.Helper()
	course, err := svc.CreateCourse(&CreateCourseRequest{
		Title:     "Intro to Web Development",
		Level:     model.Beginner,
		Price:     4900,
		Published: true,
		Category:  "technology",
	})
	require.NoError(t, err)
	return course
}

func TestCreateCourseDefaults(t *testing.T) {
	svc, _ := newCourseService(t)

	course, err := svc.CreateCourse(&CreateCourseRequest{Title: "Untitled Level"})
	require.NoError(t, err)
	assert.Equal(t, model.Beginner, course.Level)
	assert.Equal(t, 0, course.TotalLessons)
	assert.Equal(t, 0, course.TotalDuration)
}

func TestGetCourseNotFound(t *testing.T) {
	svc, _ := newCourseService(t)

	_, err := svc.GetCourse(9999)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestUpdateCoursePartialMerge(t *testing.T) {
	svc, _ := newCourseService(t)
	course := seedCourse(t, svc)

	newTitle := "Web Development Bootcamp"
	newPrice := int64(9900)
	updated, err := svc.UpdateCourse(course.ID, &UpdateCourseRequest{
		Title: &newTitle,
		Price: &newPrice,
	})
	require.NoError(t, err)

	assert.Equal(t, "Web Development Bootcamp", updated.Title)
	assert.Equal(t, int64(9900), updated.Price)
	// 未提供的字段保持原值
	assert.Equal(t, "technology", updated.Category)
	assert.True(t, updated.Published)
}

func TestLessonAggregates(t *testing.T) {
	svc, _ := newCourseService(t)
	course := seedCourse(t, svc)

	mod1, err := svc.CreateModule(course.ID, &ModuleRequest{Title: "Basics"})
	require.NoError(t, err)
	mod2, err := svc.CreateModule(course.ID, &ModuleRequest{Title: "Advanced"})
	require.NoError(t, err)

	_, err = svc.CreateLesson(mod1.ID, &LessonRequest{Title: "HTML", DurationMin: 15})
	require.NoError(t, err)
	_, err = svc.CreateLesson(mod1.ID, &LessonRequest{Title: "CSS", DurationMin: 30})
	require.NoError(t, err)
	lesson3, err := svc.CreateLesson(mod2.ID, &LessonRequest{Title: "JS", DurationMin: 45})
	require.NoError(t, err)

	got, err := svc.GetCourse(course.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalLessons)
	assert.Equal(t, 90, got.TotalDuration)

	// 删除课时后聚合同步回落
	require.NoError(t, svc.DeleteLesson(lesson3.ID))
	got, err = svc.GetCourse(course.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalLessons)
	assert.Equal(t, 45, got.TotalDuration)
}

func TestAggregatesScopedToOwningCourse(t *testing.T) {
	svc, _ := newCourseService(t)
	courseA := seedCourse(t, svc)
	courseB, err := svc.CreateCourse(&CreateCourseRequest{Title: "Other Course", Published: true})
	require.NoError(t, err)

	modA, err := svc.CreateModule(courseA.ID, &ModuleRequest{Title: "A1"})
	require.NoError(t, err)
	_, err = svc.CreateLesson(modA.ID, &LessonRequest{Title: "L1", DurationMin: 20})
	require.NoError(t, err)

	gotB, err := svc.GetCourse(courseB.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, gotB.TotalLessons)
	assert.Equal(t, 0, gotB.TotalDuration)
}

func TestDeleteCourseCascades(t *testing.T) {
	svc, db := newCourseService(t)
	course := seedCourse(t, svc)

	mod, err := svc.CreateModule(course.ID, &ModuleRequest{Title: "M1"})
	require.NoError(t, err)
	lesson, err := svc.CreateLesson(mod.ID, &LessonRequest{Title: "L1", DurationMin: 10})
	require.NoError(t, err)

	enrollment := &model.Enrollment{StudentID: 1, CourseID: course.ID, Status: model.EnrollmentActive}
	require.NoError(t, db.Create(enrollment).Error)
	require.NoError(t, db.Create(&model.LessonProgress{
		EnrollmentID: enrollment.ID,
		LessonID:     lesson.ID,
		Completed:    true,
	}).Error)
	payment := &model.CoursePayment{
		OrderID:     "order-1",
		StudentID:   1,
		CourseID:    course.ID,
		CourseTitle: course.Title,
		Amount:      4900,
		Currency:    "usd",
		Status:      model.PaymentCompleted,
	}
	require.NoError(t, db.Create(payment).Error)

	require.NoError(t, svc.DeleteCourse(course.ID))

	_, err = svc.GetCourse(course.ID)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)

	var enrollCount, progressCount, paymentCount int64
	require.NoError(t, db.Model(&model.Enrollment{}).Where("course_id = ?", course.ID).Count(&enrollCount).Error)
	require.NoError(t, db.Model(&model.LessonProgress{}).Where("enrollment_id = ?", enrollment.ID).Count(&progressCount).Error)
	require.NoError(t, db.Model(&model.CoursePayment{}).Where("course_id = ?", course.ID).Count(&paymentCount).Error)

	assert.Equal(t, int64(0), enrollCount)
	assert.Equal(t, int64(0), progressCount)
	// 支付流水不随课程删除
	assert.Equal(t, int64(1), paymentCount)
}

func TestListCoursesPublishedFilter(t *testing.T) {
	svc, _ := newCourseService(t)
	seedCourse(t, svc)
	_, err := svc.CreateCourse(&CreateCourseRequest{Title: "Draft Course", Published: false})
	require.NoError(t, err)

	published, err := svc.ListCourses(true, "")
	require.NoError(t, err)
	assert.Len(t, published, 1)

	all, err := svc.ListCourses(false, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteModuleRecomputesAggregates(t *testing.T) {
	svc, _ := newCourseService(t)
	course := seedCourse(t, svc)

	mod1, err := svc.CreateModule(course.ID, &ModuleRequest{Title: "Keep"})
	require.NoError(t, err)
	mod2, err := svc.CreateModule(course.ID, &ModuleRequest{Title: "Drop"})
	require.NoError(t, err)
	_, err = svc.CreateLesson(mod1.ID, &LessonRequest{Title: "L1", DurationMin: 10})
	require.NoError(t, err)
	_, err = svc.CreateLesson(mod2.ID, &LessonRequest{Title: "L2", DurationMin: 25})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteModule(mod2.ID))

	got, err := svc.GetCourse(course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalLessons)
	assert.Equal(t, 10, got.TotalDuration)
}
