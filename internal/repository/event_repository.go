package repository

import (
	"hopebridge_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type EventRepository struct {
	DB *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{DB: db}
}

func (r *EventRepository) Create(event *model.Event) error {
	return r.DB.Create(event).Error
}

func (r *EventRepository) FindByID(id uint) (*model.Event, error) {
	var event model.Event
	err := r.DB.First(&event, id).Error
	return &event, err
}

func (r *EventRepository) Save(event *model.Event) error {
	return r.DB.Save(event).Error
}

func (r *EventRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Event{}, id).Error
}

// ListUpcoming 按开始时间升序返回已发布且未结束的活动
func (r *EventRepository) ListUpcoming() ([]model.Event, error) {
	var events []model.Event
	err := r.DB.Where("published = ? AND ends_at > ?", true, time.Now()).
		Order("starts_at ASC").
		Find(&events).Error
	return events, err
}

func (r *EventRepository) ListAll() ([]model.Event, error) {
	var events []model.Event
	err := r.DB.Order("starts_at DESC").Find(&events).Error
	return events, err
}

func (r *EventRepository) CountRegistrations(eventID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.EventRegistration{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count, err
}

func (r *EventRepository) FindRegistration(eventID, userID uint) (*model.EventRegistration, error) {
	var reg model.EventRegistration
	err := r.DB.Where("event_id = ? AND user_id = ?", eventID, userID).First(&reg).Error
	return &reg, err
}

func (r *EventRepository) CreateRegistration(reg *model.EventRegistration) error {
	return r.DB.Create(reg).Error
}

func (r *EventRepository) DeleteRegistration(eventID, userID uint) error {
	return r.DB.Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&model.EventRegistration{}).Error
}

func (r *EventRepository) ListRegistrations(eventID uint) ([]model.EventRegistration, error) {
	var regs []model.EventRegistration
	err := r.DB.Preload("User").
		Where("event_id = ?", eventID).
		Order("id ASC").
		Find(&regs).Error
	return regs, err
}
