package service

import (
	"errors"

	"hopebridge_backend/internal/client"
	"hopebridge_backend/internal/model"
	"hopebridge_backend/internal/repository"
	"hopebridge_backend/internal/util"

	"gorm.io/gorm"
)

type VolunteerService struct {
	VolunteerRepo *repository.VolunteerRepository
	MailClient    client.MailClient
}

func NewVolunteerService(volunteerRepo *repository.VolunteerRepository, mc client.MailClient) *VolunteerService {
	return &VolunteerService{
		VolunteerRepo: volunteerRepo,
		MailClient:    mc,
	}
}

type ApplyRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Interests string `json:"interests"`
	Message   string `json:"message"`
}

// Apply 提交志愿者申请；同一邮箱有未审结申请时拒绝重复提交
func (s *VolunteerService) Apply(req *ApplyRequest) (*model.VolunteerApplication, error) {
	_, err := s.VolunteerRepo.FindOpenByEmail(req.Email)
	if err == nil {
		return nil, util.ErrApplicationExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	app := &model.VolunteerApplication{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Interests: req.Interests,
		Message:   req.Message,
		Status:    model.ApplicationPending,
	}
	if err := s.VolunteerRepo.Create(app); err != nil {
		return nil, err
	}
	return app, nil
}

// Review 审核申请并异步通知申请人结果
func (s *VolunteerService) Review(id uint, approve bool) (*model.VolunteerApplication, error) {
	app, err := s.VolunteerRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrApplicationNotFound
	} else if err != nil {
		return nil, err
	}

	if approve {
		app.Status = model.ApplicationApproved
	} else {
		app.Status = model.ApplicationRejected
	}
	if err := s.VolunteerRepo.Save(app); err != nil {
		return nil, err
	}

	s.MailClient.SendAsync(&client.MailRequest{
		To:       app.Email,
		ToName:   app.Name,
		Template: "volunteer_review",
		Context: map[string]interface{}{
			"name":     app.Name,
			"approved": approve,
		},
	})

	return app, nil
}

func (s *VolunteerService) Get(id uint) (*model.VolunteerApplication, error) {
	app, err := s.VolunteerRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrApplicationNotFound
	}
	return app, err
}

func (s *VolunteerService) List(status model.ApplicationStatus) ([]model.VolunteerApplication, error) {
	return s.VolunteerRepo.List(status)
}
