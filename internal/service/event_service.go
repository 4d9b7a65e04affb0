package service

import (
	"errors"
	"time"

	"hopebridge_backend/internal/client"
	"hopebridge_backend/internal/model"
	"hopebridge_backend/internal/repository"
	"hopebridge_backend/internal/util"

	"gorm.io/gorm"
)

type EventService struct {
	EventRepo  *repository.EventRepository
	UserRepo   *repository.UserRepository
	MailClient client.MailClient
}

func NewEventService(eventRepo *repository.EventRepository, userRepo *repository.UserRepository, mc client.MailClient) *EventService {
	return &EventService{
		EventRepo:  eventRepo,
		UserRepo:   userRepo,
		MailClient: mc,
	}
}

type EventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"startsAt" binding:"required"`
	EndsAt      time.Time `json:"endsAt" binding:"required"`
	Capacity    int       `json:"capacity"`
	ImageURL    string    `json:"imageUrl"`
	Published   bool      `json:"published"`
}

func (s *EventService) CreateEvent(req *EventRequest) (*model.Event, error) {
	event := &model.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Capacity:    req.Capacity,
		ImageURL:    req.ImageURL,
		Published:   req.Published,
	}
	if err := s.EventRepo.Create(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) UpdateEvent(id uint, req *EventRequest) (*model.Event, error) {
	event, err := s.EventRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrEventNotFound
	} else if err != nil {
		return nil, err
	}

	event.Title = req.Title
	event.Description = req.Description
	event.Location = req.Location
	event.StartsAt = req.StartsAt
	event.EndsAt = req.EndsAt
	event.Capacity = req.Capacity
	event.ImageURL = req.ImageURL
	event.Published = req.Published

	if err := s.EventRepo.Save(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) DeleteEvent(id uint) error {
	if _, err := s.EventRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrEventNotFound
		}
		return err
	}
	return s.EventRepo.Delete(id)
}

func (s *EventService) GetEvent(id uint) (*model.Event, error) {
	event, err := s.EventRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrEventNotFound
	}
	return event, err
}

func (s *EventService) ListUpcoming() ([]model.Event, error) {
	return s.EventRepo.ListUpcoming()
}

func (s *EventService) ListAll() ([]model.Event, error) {
	return s.EventRepo.ListAll()
}

// Register 活动报名。重复报名返回已有记录；容量为 0 表示不限名额。
// 报名成功后异步发送确认邮件。
func (s *EventService) Register(eventID, userID uint) (*model.EventRegistration, error) {
	event, err := s.EventRepo.FindByID(eventID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrEventNotFound
	} else if err != nil {
		return nil, err
	}
	if !event.Published {
		return nil, util.ErrEventNotPublished
	}

	existing, err := s.EventRepo.FindRegistration(eventID, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if event.Capacity > 0 {
		count, err := s.EventRepo.CountRegistrations(eventID)
		if err != nil {
			return nil, err
		}
		if count >= int64(event.Capacity) {
			return nil, util.ErrEventFull
		}
	}

	reg := &model.EventRegistration{EventID: eventID, UserID: userID}
	if err := s.EventRepo.CreateRegistration(reg); err != nil {
		return nil, err
	}

	if user, err := s.UserRepo.FindByID(userID); err == nil {
		s.MailClient.SendAsync(&client.MailRequest{
			To:       user.Email,
			ToName:   user.FullName(),
			Template: "event_registration",
			Context: map[string]interface{}{
				"eventTitle": event.Title,
				"startsAt":   event.StartsAt,
				"location":   event.Location,
			},
		})
	}

	return reg, nil
}

// Cancel 取消报名；未报名时静默成功
func (s *EventService) Cancel(eventID, userID uint) error {
	if _, err := s.EventRepo.FindByID(eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrEventNotFound
		}
		return err
	}
	return s.EventRepo.DeleteRegistration(eventID, userID)
}

func (s *EventService) Attendees(eventID uint) ([]model.EventRegistration, error) {
	if _, err := s.EventRepo.FindByID(eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEventNotFound
		}
		return nil, err
	}
	return s.EventRepo.ListRegistrations(eventID)
}
