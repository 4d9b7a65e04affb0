package model

import "time"

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentPaused    EnrollmentStatus = "paused"
)

// Enrollment 报名记录，(student, course) 至多一条
// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	StudentID         uint             `gorm:"index:idx_student_course,unique;not null" json:"studentId"`
	CourseID          uint             `gorm:"index:idx_student_course,unique;not null" json:"courseId"`
	Status            EnrollmentStatus `gorm:"size:20;default:'active'" json:"status"`
	Progress          int              `gorm:"default:0" json:"progress"` // 0-100
	CompletedAt       *time.Time       `json:"completedAt"`
	CertificateIssued bool             `gorm:"default:false" json:"certificateIssued"`

	Course Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// LessonProgress 课时完成记录，(enrollment, lesson) 至多一条
// swagger:model LessonProgress
type LessonProgress struct {
	BaseModel
	EnrollmentID uint       `gorm:"index:idx_enrollment_lesson,unique;not null" json:"enrollmentId"`
	LessonID     uint       `gorm:"index:idx_enrollment_lesson,unique;not null" json:"lessonId"`
	Completed    bool       `gorm:"default:false" json:"completed"`
	CompletedAt  *time.Time `json:"completedAt"`
	TimeSpent    int        `gorm:"default:0" json:"timeSpent"` // 秒
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}
