package repository

import (
	"hopebridge_backend/internal/model"

	"gorm.io/gorm"
)

type GalleryRepository struct {
	DB *gorm.DB
}

func NewGalleryRepository(db *gorm.DB) *GalleryRepository {
	return &GalleryRepository{DB: db}
}

func (r *GalleryRepository) Create(item *model.GalleryItem) error {
	return r.DB.Create(item).Error
}

func (r *GalleryRepository) FindByID(id uint) (*model.GalleryItem, error) {
	var item model.GalleryItem
	err := r.DB.First(&item, id).Error
	return &item, err
}

func (r *GalleryRepository) Delete(id uint) error {
	return r.DB.Delete(&model.GalleryItem{}, id).Error
}

func (r *GalleryRepository) List(album string) ([]model.GalleryItem, error) {
	var items []model.GalleryItem
	query := r.DB.Order("id DESC")
	if album != "" {
		query = query.Where("album = ?", album)
	}
	err := query.Find(&items).Error
	return items, err
}

// Albums 返回去重后的相册名列表
func (r *GalleryRepository) Albums() ([]string, error) {
	var albums []string
	err := r.DB.Model(&model.GalleryItem{}).
		Distinct("album").
		Where("album <> ''").
		Order("album ASC").
		Pluck("album", &albums).Error
	return albums, err
}
