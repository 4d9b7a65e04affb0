package model

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// VolunteerApplication 志愿者申请
// swagger:model VolunteerApplication
type VolunteerApplication struct {
	BaseModel
	Name      string            `gorm:"size:100;not null" json:"name"`
	Email     string            `gorm:"size:100;index;not null" json:"email"`
	Phone     string            `gorm:"size:30" json:"phone"`
	Interests string            `gorm:"size:255" json:"interests"` // 逗号分隔的意向领域
	Message   string            `gorm:"type:text" json:"message"`
	Status    ApplicationStatus `gorm:"size:20;default:'pending'" json:"status"`
}

func (VolunteerApplication) TableName() string {
	return "volunteer_applications"
}
