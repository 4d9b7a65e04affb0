package model

// Donation 捐赠记录；支付意图由托管支付函数创建
// swagger:model Donation
type Donation struct {
	BaseModel
	DonorName       string        `gorm:"size:100" json:"donorName"`
	DonorEmail      string        `gorm:"size:100;index" json:"donorEmail"`
	Message         string        `gorm:"size:500" json:"message"`
	Anonymous       bool          `gorm:"default:false" json:"anonymous"`
	Amount          int64         `gorm:"not null" json:"amount"` // 最小货币单位
	Currency        string        `gorm:"size:10;default:'usd'" json:"currency"`
	Status          PaymentStatus `gorm:"size:20;default:'pending'" json:"status"`
	StripePaymentID string        `gorm:"size:100" json:"stripePaymentId"`
	UserID          *uint         `gorm:"index" json:"userId"` // 登录用户捐赠时关联
}

func (Donation) TableName() string {
	return "donations"
}
