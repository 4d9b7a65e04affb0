package repository

import (
	"hopebridge_backend/internal/model"

	"gorm.io/gorm"
)

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{DB: db}
}

func (r *ProductRepository) Create(product *model.Product) error {
	return r.DB.Create(product).Error
}

func (r *ProductRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.DB.First(&product, id).Error
	return &product, err
}

func (r *ProductRepository) Save(product *model.Product) error {
	return r.DB.Save(product).Error
}

func (r *ProductRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Product{}, id).Error
}

func (r *ProductRepository) ListActive() ([]model.Product, error) {
	var products []model.Product
	err := r.DB.Where("active = ?", true).Order("id ASC").Find(&products).Error
	return products, err
}

func (r *ProductRepository) ListAll() ([]model.Product, error) {
	var products []model.Product
	err := r.DB.Order("id ASC").Find(&products).Error
	return products, err
}
