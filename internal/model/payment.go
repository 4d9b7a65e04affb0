package model

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// CoursePayment 课程购买流水；CourseTitle 为下单时刻的冗余快照
// swagger:model CoursePayment
type CoursePayment struct {
	BaseModel
	OrderID         string        `gorm:"size:64;index" json:"orderId"` // 外部订单号，不做唯一校验
	StudentID       uint          `gorm:"index;not null" json:"studentId"`
	CourseID        uint          `gorm:"index;not null" json:"courseId"`
	CourseTitle     string        `gorm:"size:255" json:"courseTitle"`
	Amount          int64         `gorm:"not null" json:"amount"` // 最小货币单位
	Currency        string        `gorm:"size:10;default:'usd'" json:"currency"`
	Status          PaymentStatus `gorm:"size:20;default:'pending'" json:"status"`
	StripePaymentID string        `gorm:"size:100" json:"stripePaymentId"`
}

func (CoursePayment) TableName() string {
	return "course_payments"
}
