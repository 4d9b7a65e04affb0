package repository

import (
	"hopebridge_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type DonationRepository struct {
	DB *gorm.DB
}

func NewDonationRepository(db *gorm.DB) *DonationRepository {
	return &DonationRepository{DB: db}
}

func (r *DonationRepository) Create(donation *model.Donation) error {
	return r.DB.Create(donation).Error
}

func (r *DonationRepository) FindByID(id uint) (*model.Donation, error) {
	var donation model.Donation
	err := r.DB.First(&donation, id).Error
	return &donation, err
}

func (r *DonationRepository) FindByPaymentID(stripePaymentID string) (*model.Donation, error) {
	var donation model.Donation
	err := r.DB.Where("stripe_payment_id = ?", stripePaymentID).First(&donation).Error
	return &donation, err
}

func (r *DonationRepository) Save(donation *model.Donation) error {
	return r.DB.Save(donation).Error
}

func (r *DonationRepository) List(page, limit int) ([]model.Donation, int64, error) {
	var donations []model.Donation
	var total int64

	if err := r.DB.Model(&model.Donation{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&donations).Error
	return donations, total, err
}

// TotalCompleted 已完成捐赠总额（最小货币单位）
func (r *DonationRepository) TotalCompleted() (int64, error) {
	var total int64
	err := r.DB.Model(&model.Donation{}).
		Where("status = ?", model.PaymentCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// MarkStaleFailed 将超过 cutoff 仍未确认的捐赠标记为失败，返回影响行数
func (r *DonationRepository) MarkStaleFailed(cutoff time.Time) (int64, error) {
	result := r.DB.Model(&model.Donation{}).
		Where("status = ? AND created_at < ?", model.PaymentPending, cutoff).
		Update("status", model.PaymentFailed)
	return result.RowsAffected, result.Error
}
