package model

import "time"

// Event 活动
// swagger:model Event
type Event struct {
	BaseModel
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Location    string    `gorm:"size:255" json:"location"`
	StartsAt    time.Time `gorm:"index" json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	Capacity    int       `gorm:"default:0" json:"capacity"` // 0 表示不限
	ImageURL    string    `gorm:"size:255" json:"imageUrl"`
	Published   bool      `gorm:"default:false" json:"published"`
}

func (Event) TableName() string {
	return "events"
}

// EventRegistration 活动报名，(event, user) 至多一条
// swagger:model EventRegistration
type EventRegistration struct {
	BaseModel
	EventID uint `gorm:"index:idx_event_user,unique;not null" json:"eventId"`
	UserID  uint `gorm:"index:idx_event_user,unique;not null" json:"userId"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (EventRegistration) TableName() string {
	return "event_registrations"
}
