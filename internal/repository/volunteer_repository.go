package repository

import (
	"hopebridge_backend/internal/model"

	"gorm.io/gorm"
)

type VolunteerRepository struct {
	DB *gorm.DB
}

func NewVolunteerRepository(db *gorm.DB) *VolunteerRepository {
	return &VolunteerRepository{DB: db}
}

func (r *VolunteerRepository) Create(app *model.VolunteerApplication) error {
	return r.DB.Create(app).Error
}

func (r *VolunteerRepository) FindByID(id uint) (*model.VolunteerApplication, error) {
	var app model.VolunteerApplication
	err := r.DB.First(&app, id).Error
	return &app, err
}

// FindOpenByEmail 查找该邮箱尚未审结的申请
func (r *VolunteerRepository) FindOpenByEmail(email string) (*model.VolunteerApplication, error) {
	var app model.VolunteerApplication
	err := r.DB.Where("email = ? AND status = ?", email, model.ApplicationPending).
		First(&app).Error
	return &app, err
}

func (r *VolunteerRepository) Save(app *model.VolunteerApplication) error {
	return r.DB.Save(app).Error
}

func (r *VolunteerRepository) List(status model.ApplicationStatus) ([]model.VolunteerApplication, error) {
	var apps []model.VolunteerApplication
	query := r.DB.Order("id DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Find(&apps).Error
	return apps, err
}
