package repository

import (
	"hopebridge_backend/internal/model"

	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

func (r *OrderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	err := r.DB.Preload("Items").First(&order, id).Error
	return &order, err
}

func (r *OrderRepository) FindByOrderNo(orderNo string) (*model.Order, error) {
	var order model.Order
	err := r.DB.Preload("Items").Where("order_no = ?", orderNo).First(&order).Error
	return &order, err
}

func (r *OrderRepository) Save(order *model.Order) error {
	return r.DB.Save(order).Error
}

func (r *OrderRepository) ListByUser(userID uint) ([]model.Order, error) {
	var orders []model.Order
	err := r.DB.Preload("Items").
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) List(page, limit int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	if err := r.DB.Model(&model.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Preload("Items").
		Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	return orders, total, err
}
