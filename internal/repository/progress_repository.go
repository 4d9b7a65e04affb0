package repository

import (
	"hopebridge_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) FindByEnrollmentAndLesson(enrollmentID, lessonID uint) (*model.LessonProgress, error) {
	var progress model.LessonProgress
	err := r.DB.Where("enrollment_id = ? AND lesson_id = ?", enrollmentID, lessonID).
		First(&progress).Error
	return &progress, err
}

func (r *ProgressRepository) Create(progress *model.LessonProgress) error {
	return r.DB.Create(progress).Error
}

func (r *ProgressRepository) Save(progress *model.LessonProgress) error {
	return r.DB.Save(progress).Error
}

// CountCompleted 统计报名下不同课时的完成条数
func (r *ProgressRepository) CountCompleted(enrollmentID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.LessonProgress{}).
		Where("enrollment_id = ? AND completed = ?", enrollmentID, true).
		Count(&count).Error
	return count, err
}

func (r *ProgressRepository) ListByEnrollment(enrollmentID uint) ([]model.LessonProgress, error) {
	var records []model.LessonProgress
	err := r.DB.Where("enrollment_id = ?", enrollmentID).Order("id ASC").Find(&records).Error
	return records, err
}
