package service

import (
	"errors"
	"time"

	"hopebridge_backend/internal/model"
	"hopebridge_backend/internal/repository"
	"hopebridge_backend/internal/util"
	"hopebridge_backend/pkg/logger"
	"hopebridge_backend/pkg/monitoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	ProgressRepo   *repository.ProgressRepository
	CourseRepo     *repository.CourseRepository
	DB             *gorm.DB
}

func NewEnrollmentService(
	enrollmentRepo *repository.EnrollmentRepository,
	progressRepo *repository.ProgressRepository,
	courseRepo *repository.CourseRepository,
	db *gorm.DB,
) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		ProgressRepo:   progressRepo,
		CourseRepo:     courseRepo,
		DB:             db,
	}
}

// Enroll 报名课程。重复报名返回已有记录，不产生第二条。
func (s *EnrollmentService) Enroll(studentID, courseID uint) (*model.Enrollment, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	existing, err := s.EnrollmentRepo.FindByStudentAndCourse(studentID, courseID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment := &model.Enrollment{
		StudentID: studentID,
		CourseID:  courseID,
		Status:    model.EnrollmentActive,
		Progress:  0,
	}
	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		return nil, err
	}
	monitoring.EnrollmentCounter.WithLabelValues("false").Inc()
	return enrollment, nil
}

// EnrollWithPayment 付费报名：支付流水与报名记录在同一事务内写入，
// 不会出现只有其一的中间状态。已报名的学员直接返回现有记录，不再扣款。
// orderID 为回调方的外部订单号，缺省时生成一个。
func (s *EnrollmentService) EnrollWithPayment(studentID, courseID uint, currency, stripePaymentID, orderID string) (*model.Enrollment, *model.CoursePayment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrCourseNotFound
		}
		return nil, nil, err
	}

	existing, err := s.EnrollmentRepo.FindByStudentAndCourse(studentID, courseID)
	if err == nil {
		return existing, nil, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	enrollment := &model.Enrollment{
		StudentID: studentID,
		CourseID:  courseID,
		Status:    model.EnrollmentActive,
		Progress:  0,
	}
	if orderID == "" {
		orderID = uuid.New().String()
	}
	payment := &model.CoursePayment{
		OrderID:         orderID,
		StudentID:       studentID,
		CourseID:        courseID,
		CourseTitle:     course.Title,
		Amount:          course.Price,
		Currency:        currency,
		Status:          model.PaymentCompleted,
		StripePaymentID: stripePaymentID,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		return tx.Create(enrollment).Error
	})
	if err != nil {
		return nil, nil, err
	}

	monitoring.EnrollmentCounter.WithLabelValues("true").Inc()
	logger.Log.Info("Course enrollment with payment",
		zap.Uint("studentID", studentID),
		zap.Uint("courseID", courseID),
		zap.String("orderID", payment.OrderID),
		zap.Int64("amount", payment.Amount))
	return enrollment, payment, nil
}

// CompleteLesson 标记课时完成并按去重后的完成数重算进度。
// 重复完成同一课时不改变进度；进度由存量数据重算，可幂等重放。
func (s *EnrollmentService) CompleteLesson(studentID, lessonID uint, timeSpent int) (*model.Enrollment, error) {
	if _, err := s.CourseRepo.FindLessonByID(lessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	courseID, err := s.CourseRepo.FindCourseIDByLesson(lessonID)
	if err != nil {
		return nil, err
	}

	enrollment, err := s.EnrollmentRepo.FindByStudentAndCourse(studentID, courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotEnrolled
	} else if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var lp model.LessonProgress
		lookup := tx.Where("enrollment_id = ? AND lesson_id = ?", enrollment.ID, lessonID).First(&lp)
		if lookup.Error == nil {
			if !lp.Completed {
				lp.Completed = true
				lp.CompletedAt = &now
			}
			lp.TimeSpent += timeSpent
			if err := tx.Save(&lp).Error; err != nil {
				return err
			}
		} else if errors.Is(lookup.Error, gorm.ErrRecordNotFound) {
			lp = model.LessonProgress{
				EnrollmentID: enrollment.ID,
				LessonID:     lessonID,
				Completed:    true,
				CompletedAt:  &now,
				TimeSpent:    timeSpent,
			}
			if err := tx.Create(&lp).Error; err != nil {
				return err
			}
		} else {
			return lookup.Error
		}

		return s.recomputeProgress(tx, enrollment, courseID, now)
	})
	if err != nil {
		return nil, err
	}

	return enrollment, nil
}

// recomputeProgress 进度 = round(100 * 已完成课时数 / 课程课时总数)。
// 满 100 置为 completed；不满 100 则强制回到 active，覆盖 paused。
func (s *EnrollmentService) recomputeProgress(tx *gorm.DB, enrollment *model.Enrollment, courseID uint, now time.Time) error {
	var total int64
	err := tx.Model(&model.Lesson{}).
		Joins("JOIN course_modules ON course_modules.id = lessons.module_id").
		Where("course_modules.course_id = ? AND course_modules.deleted_at IS NULL AND lessons.deleted_at IS NULL", courseID).
		Count(&total).Error
	if err != nil {
		return err
	}

	var completed int64
	err = tx.Model(&model.LessonProgress{}).
		Where("enrollment_id = ? AND completed = ?", enrollment.ID, true).
		Count(&completed).Error
	if err != nil {
		return err
	}

	progress := 0
	if total > 0 {
		progress = int((100*completed + total/2) / total)
	}
	if progress > 100 {
		progress = 100
	}

	enrollment.Progress = progress
	if progress >= 100 && total > 0 {
		enrollment.Status = model.EnrollmentCompleted
		if enrollment.CompletedAt == nil {
			enrollment.CompletedAt = &now
		}
	} else {
		enrollment.Status = model.EnrollmentActive
		enrollment.CompletedAt = nil
	}

	return tx.Save(enrollment).Error
}

// Progress 未知报名返回 0，不报错
func (s *EnrollmentService) Progress(enrollmentID uint) int {
	enrollment, err := s.EnrollmentRepo.FindByID(enrollmentID)
	if err != nil {
		return 0
	}
	return enrollment.Progress
}

func (s *EnrollmentService) GetEnrollment(id uint) (*model.Enrollment, error) {
	enrollment, err := s.EnrollmentRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrEnrollmentNotFound
	}
	return enrollment, err
}

// Pause 暂停学习。只有本人的 active 报名可以暂停。
func (s *EnrollmentService) Pause(studentID, enrollmentID uint) (*model.Enrollment, error) {
	enrollment, err := s.ownEnrollment(studentID, enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.Status != model.EnrollmentActive {
		return enrollment, nil
	}
	enrollment.Status = model.EnrollmentPaused
	if err := s.EnrollmentRepo.Save(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *EnrollmentService) Resume(studentID, enrollmentID uint) (*model.Enrollment, error) {
	enrollment, err := s.ownEnrollment(studentID, enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.Status != model.EnrollmentPaused {
		return enrollment, nil
	}
	enrollment.Status = model.EnrollmentActive
	if err := s.EnrollmentRepo.Save(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *EnrollmentService) ownEnrollment(studentID, enrollmentID uint) (*model.Enrollment, error) {
	enrollment, err := s.EnrollmentRepo.FindByID(enrollmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrEnrollmentNotFound
	} else if err != nil {
		return nil, err
	}
	if enrollment.StudentID != studentID {
		return nil, util.ErrEnrollmentNotFound
	}
	return enrollment, nil
}

func (s *EnrollmentService) ListByStudent(studentID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.ListByStudent(studentID)
}

func (s *EnrollmentService) ListByCourse(courseID uint) ([]model.Enrollment, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return s.EnrollmentRepo.ListByCourse(courseID)
}

// LessonProgressList 报名下全部课时进度，供前端渲染课程大纲勾选状态
func (s *EnrollmentService) LessonProgressList(studentID, enrollmentID uint) ([]model.LessonProgress, error) {
	if _, err := s.ownEnrollment(studentID, enrollmentID); err != nil {
		return nil, err
	}
	return s.ProgressRepo.ListByEnrollment(enrollmentID)
}
