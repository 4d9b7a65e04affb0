package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"hopebridge_backend/internal/model"
	"hopebridge_backend/internal/repository"
	"hopebridge_backend/internal/util"
	"hopebridge_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const catalogCacheKey = "catalog:published"
const catalogCacheTTL = 5 * time.Minute

type CourseService struct {
	CourseRepo *repository.CourseRepository
	DB         *gorm.DB
	Redis      *redis.Client
}

func NewCourseService(courseRepo *repository.CourseRepository, db *gorm.DB, rdb *redis.Client) *CourseService {
	return &CourseService{
		CourseRepo: courseRepo,
		DB:         db,
		Redis:      rdb,
	}
}

// CreateCourseRequest 新建课程；调用方被信任，价格符号、标题查重均不校验
type CreateCourseRequest struct {
	Title         string            `json:"title" binding:"required"`
	ShortDesc     string            `json:"shortDesc"`
	Description   string            `json:"description"`
	DurationLabel string            `json:"durationLabel"`
	Level         model.CourseLevel `json:"level"`
	Instructor    string            `json:"instructor"`
	InstructorBio string            `json:"instructorBio"`
	ImageURL      string            `json:"imageUrl"`
	Price         int64             `json:"price"`
	Published     bool              `json:"published"`
	Featured      bool              `json:"featured"`
	Category      string            `json:"category"`
}

// UpdateCourseRequest 部分更新：仅合并非 nil 字段
type UpdateCourseRequest struct {
	Title         *string            `json:"title"`
	ShortDesc     *string            `json:"shortDesc"`
	Description   *string            `json:"description"`
	DurationLabel *string            `json:"durationLabel"`
	Level         *model.CourseLevel `json:"level"`
	Instructor    *string            `json:"instructor"`
	InstructorBio *string            `json:"instructorBio"`
	ImageURL      *string            `json:"imageUrl"`
	Price         *int64             `json:"price"`
	Published     *bool              `json:"published"`
	Featured      *bool              `json:"featured"`
	Category      *string            `json:"category"`
}

func (s *CourseService) CreateCourse(req *CreateCourseRequest) (*model.Course, error) {
	course := &model.Course{
		Title:         req.Title,
		ShortDesc:     req.ShortDesc,
		Description:   req.Description,
		DurationLabel: req.DurationLabel,
		Level:         req.Level,
		Instructor:    req.Instructor,
		InstructorBio: req.InstructorBio,
		ImageURL:      req.ImageURL,
		Price:         req.Price,
		Published:     req.Published,
		Featured:      req.Featured,
		Category:      req.Category,
		Modules:       []model.CourseModule{},
	}
	if course.Level == "" {
		course.Level = model.Beginner
	}

	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	s.invalidateCatalogCache()
	return course, nil
}

func (s *CourseService) GetCourse(id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	return course, err
}

func (s *CourseService) UpdateCourse(id uint, req *UpdateCourseRequest) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	} else if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.ShortDesc != nil {
		course.ShortDesc = *req.ShortDesc
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.DurationLabel != nil {
		course.DurationLabel = *req.DurationLabel
	}
	if req.Level != nil {
		course.Level = *req.Level
	}
	if req.Instructor != nil {
		course.Instructor = *req.Instructor
	}
	if req.InstructorBio != nil {
		course.InstructorBio = *req.InstructorBio
	}
	if req.ImageURL != nil {
		course.ImageURL = *req.ImageURL
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.Published != nil {
		course.Published = *req.Published
	}
	if req.Featured != nil {
		course.Featured = *req.Featured
	}
	if req.Category != nil {
		course.Category = *req.Category
	}

	if err := s.CourseRepo.Save(course); err != nil {
		return nil, err
	}
	s.invalidateCatalogCache()
	return course, nil
}

// DeleteCourse 删除课程并级联清理其章节、课时、报名与课时进度。
// 支付流水不级联，保留审计记录。
func (s *CourseService) DeleteCourse(id uint) error {
	_, err := s.CourseRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrCourseNotFound
	} else if err != nil {
		return err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var moduleIDs []uint
		if err := tx.Model(&model.CourseModule{}).
			Where("course_id = ?", id).
			Pluck("id", &moduleIDs).Error; err != nil {
			return err
		}

		var enrollmentIDs []uint
		if err := tx.Model(&model.Enrollment{}).
			Where("course_id = ?", id).
			Pluck("id", &enrollmentIDs).Error; err != nil {
			return err
		}

		if len(enrollmentIDs) > 0 {
			if err := tx.Where("enrollment_id IN ?", enrollmentIDs).
				Delete(&model.LessonProgress{}).Error; err != nil {
				return err
			}
			if err := tx.Where("course_id = ?", id).
				Delete(&model.Enrollment{}).Error; err != nil {
				return err
			}
		}

		if len(moduleIDs) > 0 {
			if err := tx.Where("module_id IN ?", moduleIDs).
				Delete(&model.Lesson{}).Error; err != nil {
				return err
			}
			if err := tx.Where("course_id = ?", id).
				Delete(&model.CourseModule{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&model.Course{}, id).Error
	})
	if err != nil {
		return err
	}

	s.invalidateCatalogCache()
	return nil
}

// ListCourses publishedOnly 时优先走缓存
func (s *CourseService) ListCourses(publishedOnly bool, category string) ([]model.Course, error) {
	if publishedOnly && category == "" {
		if cached, ok := s.catalogFromCache(); ok {
			return cached, nil
		}
	}

	courses, err := s.CourseRepo.List(publishedOnly, category)
	if err != nil {
		return nil, err
	}

	if publishedOnly && category == "" {
		s.cacheCatalog(courses)
	}
	return courses, nil
}

type ModuleRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	SortOrder   int    `json:"sortOrder"`
}

func (s *CourseService) CreateModule(courseID uint, req *ModuleRequest) (*model.CourseModule, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	mod := &model.CourseModule{
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		Lessons:     []model.Lesson{},
	}
	if err := s.CourseRepo.CreateModule(mod); err != nil {
		return nil, err
	}
	s.invalidateCatalogCache()
	return mod, nil
}

type UpdateModuleRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sortOrder"`
}

func (s *CourseService) UpdateModule(id uint, req *UpdateModuleRequest) (*model.CourseModule, error) {
	mod, err := s.CourseRepo.FindModuleByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrModuleNotFound
	} else if err != nil {
		return nil, err
	}

	if req.Title != nil {
		mod.Title = *req.Title
	}
	if req.Description != nil {
		mod.Description = *req.Description
	}
	if req.SortOrder != nil {
		mod.SortOrder = *req.SortOrder
	}

	if err := s.CourseRepo.SaveModule(mod); err != nil {
		return nil, err
	}
	s.invalidateCatalogCache()
	return mod, nil
}

func (s *CourseService) DeleteModule(id uint) error {
	mod, err := s.CourseRepo.FindModuleByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrModuleNotFound
	} else if err != nil {
		return err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var lessonIDs []uint
		if err := tx.Model(&model.Lesson{}).
			Where("module_id = ?", id).
			Pluck("id", &lessonIDs).Error; err != nil {
			return err
		}

		if len(lessonIDs) > 0 {
			if err := tx.Where("lesson_id IN ?", lessonIDs).
				Delete(&model.LessonProgress{}).Error; err != nil {
				return err
			}
			if err := tx.Where("module_id = ?", id).
				Delete(&model.Lesson{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Delete(&model.CourseModule{}, id).Error; err != nil {
			return err
		}

		return s.recomputeAggregates(tx, mod.CourseID)
	})
	if err != nil {
		return err
	}

	s.invalidateCatalogCache()
	return nil
}

type LessonRequest struct {
	Title       string           `json:"title" binding:"required"`
	Kind        model.LessonKind `json:"kind"`
	Content     string           `json:"content"`
	VideoURL    string           `json:"videoUrl"`
	DurationMin int              `json:"durationMin"`
	SortOrder   int              `json:"sortOrder"`
	IsPreview   bool             `json:"isPreview"`
}

// CreateLesson 追加课时到指定章节，并重算所属课程的聚合字段。
// 只有包含该章节的课程受影响。
func (s *CourseService) CreateLesson(moduleID uint, req *LessonRequest) (*model.Lesson, error) {
	mod, err := s.CourseRepo.FindModuleByID(moduleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrModuleNotFound
	} else if err != nil {
		return nil, err
	}

	lesson := &model.Lesson{
		ModuleID:    moduleID,
		Title:       req.Title,
		Kind:        req.Kind,
		Content:     req.Content,
		VideoURL:    req.VideoURL,
		DurationMin: req.DurationMin,
		SortOrder:   req.SortOrder,
		IsPreview:   req.IsPreview,
	}
	if lesson.Kind == "" {
		lesson.Kind = model.LessonText
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(lesson).Error; err != nil {
			return err
		}
		return s.recomputeAggregates(tx, mod.CourseID)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCatalogCache()
	return lesson, nil
}

type UpdateLessonRequest struct {
	Title       *string           `json:"title"`
	Kind        *model.LessonKind `json:"kind"`
	Content     *string           `json:"content"`
	VideoURL    *string           `json:"videoUrl"`
	DurationMin *int              `json:"durationMin"`
	SortOrder   *int              `json:"sortOrder"`
	IsPreview   *bool             `json:"isPreview"`
}

// UpdateLesson 按 id 全局定位课时，不限定在某个课程内
func (s *CourseService) UpdateLesson(id uint, req *UpdateLessonRequest) (*model.Lesson, error) {
	lesson, err := s.CourseRepo.FindLessonByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLessonNotFound
	} else if err != nil {
		return nil, err
	}

	if req.Title != nil {
		lesson.Title = *req.Title
	}
	if req.Kind != nil {
		lesson.Kind = *req.Kind
	}
	if req.Content != nil {
		lesson.Content = *req.Content
	}
	if req.VideoURL != nil {
		lesson.VideoURL = *req.VideoURL
	}
	if req.DurationMin != nil {
		lesson.DurationMin = *req.DurationMin
	}
	if req.SortOrder != nil {
		lesson.SortOrder = *req.SortOrder
	}
	if req.IsPreview != nil {
		lesson.IsPreview = *req.IsPreview
	}

	courseID, err := s.CourseRepo.FindCourseIDByModule(lesson.ModuleID)
	if err != nil {
		return nil, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(lesson).Error; err != nil {
			return err
		}
		return s.recomputeAggregates(tx, courseID)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCatalogCache()
	return lesson, nil
}

// DeleteLesson 删除课时并清理其全部进度记录，随后重算聚合
func (s *CourseService) DeleteLesson(id uint) error {
	lesson, err := s.CourseRepo.FindLessonByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrLessonNotFound
	} else if err != nil {
		return err
	}

	courseID, err := s.CourseRepo.FindCourseIDByModule(lesson.ModuleID)
	if err != nil {
		return err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_id = ?", id).
			Delete(&model.LessonProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Lesson{}, id).Error; err != nil {
			return err
		}
		return s.recomputeAggregates(tx, courseID)
	})
	if err != nil {
		return err
	}

	s.invalidateCatalogCache()
	return nil
}

// recomputeAggregates 汇总课程下全部章节的课时数与时长并写回课程行
func (s *CourseService) recomputeAggregates(tx *gorm.DB, courseID uint) error {
	type agg struct {
		Count    int
		Duration int
	}
	var a agg
	err := tx.Model(&model.Lesson{}).
		Select("COUNT(lessons.id) AS count, COALESCE(SUM(lessons.duration_min), 0) AS duration").
		Joins("JOIN course_modules ON course_modules.id = lessons.module_id").
		Where("course_modules.course_id = ? AND course_modules.deleted_at IS NULL AND lessons.deleted_at IS NULL", courseID).
		Scan(&a).Error
	if err != nil {
		return err
	}

	return tx.Model(&model.Course{}).
		Where("id = ?", courseID).
		Updates(map[string]interface{}{
			"total_lessons":  a.Count,
			"total_duration": a.Duration,
		}).Error
}

func (s *CourseService) catalogFromCache() ([]model.Course, bool) {
	if s.Redis == nil {
		return nil, false
	}
	val, err := s.Redis.Get(context.Background(), catalogCacheKey).Result()
	if err != nil {
		return nil, false
	}
	var courses []model.Course
	if err := json.Unmarshal([]byte(val), &courses); err != nil {
		return nil, false
	}
	return courses, true
}

func (s *CourseService) cacheCatalog(courses []model.Course) {
	if s.Redis == nil {
		return
	}
	data, err := json.Marshal(courses)
	if err != nil {
		return
	}
	if err := s.Redis.Set(context.Background(), catalogCacheKey, data, catalogCacheTTL).Err(); err != nil {
		logger.Log.Warn("Failed to cache course catalog", zap.Error(err))
	}
}

func (s *CourseService) invalidateCatalogCache() {
	if s.Redis == nil {
		return
	}
	s.Redis.Del(context.Background(), catalogCacheKey)
}
