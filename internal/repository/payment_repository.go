package repository

import (
	"hopebridge_backend/internal/model"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	DB *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

// Create 无条件追加流水，不做订单号查重
func (r *PaymentRepository) Create(payment *model.CoursePayment) error {
	return r.DB.Create(payment).Error
}

func (r *PaymentRepository) FindByID(id uint) (*model.CoursePayment, error) {
	var payment model.CoursePayment
	err := r.DB.First(&payment, id).Error
	return &payment, err
}

func (r *PaymentRepository) Save(payment *model.CoursePayment) error {
	return r.DB.Save(payment).Error
}

// ListByStudent 按插入顺序返回某学员的全部流水
func (r *PaymentRepository) ListByStudent(studentID uint) ([]model.CoursePayment, error) {
	var payments []model.CoursePayment
	err := r.DB.Where("student_id = ?", studentID).Order("id ASC").Find(&payments).Error
	return payments, err
}

func (r *PaymentRepository) List(page, limit int) ([]model.CoursePayment, int64, error) {
	var payments []model.CoursePayment
	var total int64

	if err := r.DB.Model(&model.CoursePayment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&payments).Error
	return payments, total, err
}
