package repository

import (
	"hopebridge_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

// FindByID 返回课程及其按 sort_order 排序的章节与课时
func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("course_modules.sort_order ASC, course_modules.id ASC")
		}).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.sort_order ASC, lessons.id ASC")
		}).
		First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) Save(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) List(publishedOnly bool, category string) ([]model.Course, error) {
	var courses []model.Course
	query := r.DB.
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("course_modules.sort_order ASC, course_modules.id ASC")
		}).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.sort_order ASC, lessons.id ASC")
		})

	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	err := query.Order("id ASC").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) CreateModule(mod *model.CourseModule) error {
	return r.DB.Create(mod).Error
}

func (r *CourseRepository) FindModuleByID(id uint) (*model.CourseModule, error) {
	var mod model.CourseModule
	err := r.DB.First(&mod, id).Error
	return &mod, err
}

func (r *CourseRepository) SaveModule(mod *model.CourseModule) error {
	return r.DB.Save(mod).Error
}

func (r *CourseRepository) CreateLesson(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *CourseRepository) FindLessonByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	return &lesson, err
}

func (r *CourseRepository) SaveLesson(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

// FindCourseIDByModule 返回章节所属的课程 id
func (r *CourseRepository) FindCourseIDByModule(moduleID uint) (uint, error) {
	var mod model.CourseModule
	if err := r.DB.Select("course_id").First(&mod, moduleID).Error; err != nil {
		return 0, err
	}
	return mod.CourseID, nil
}

// FindCourseIDByLesson 返回课时所属的课程 id（经由章节，取首个匹配）
func (r *CourseRepository) FindCourseIDByLesson(lessonID uint) (uint, error) {
	var lesson model.Lesson
	if err := r.DB.Select("module_id").First(&lesson, lessonID).Error; err != nil {
		return 0, err
	}
	return r.FindCourseIDByModule(lesson.ModuleID)
}

// CountLessons 统计课程下全部章节的课时数与总时长（分钟）
func (r *CourseRepository) CountLessons(courseID uint) (int, int, error) {
	type agg struct {
		Count    int
		Duration int
	}
	var a agg
	err := r.DB.Model(&model.Lesson{}).
		Select("COUNT(lessons.id) AS count, COALESCE(SUM(lessons.duration_min), 0) AS duration").
		Joins("JOIN course_modules ON course_modules.id = lessons.module_id").
		Where("course_modules.course_id = ? AND course_modules.deleted_at IS NULL AND lessons.deleted_at IS NULL", courseID).
		Scan(&a).Error
	return a.Count, a.Duration, err
}
