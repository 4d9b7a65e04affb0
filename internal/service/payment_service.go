package service

import (
	"context"
	"errors"
	"strconv"

	"hopebridge_backend/internal/client"
	"hopebridge_backend/internal/model"
	"hopebridge_backend/internal/repository"
	"hopebridge_backend/internal/util"

	"gorm.io/gorm"
)

type PaymentService struct {
	PaymentRepo   *repository.PaymentRepository
	CourseRepo    *repository.CourseRepository
	PaymentClient client.PaymentClient
	Currency      string
}

func NewPaymentService(paymentRepo *repository.PaymentRepository, courseRepo *repository.CourseRepository, pc client.PaymentClient, currency string) *PaymentService {
	return &PaymentService{
		PaymentRepo:   paymentRepo,
		CourseRepo:    courseRepo,
		PaymentClient: pc,
		Currency:      currency,
	}
}

// CreateCourseIntent 为购课创建支付意向。真正的流水与报名
// 在支付回调确认后由 EnrollmentService.EnrollWithPayment 落库。
func (s *PaymentService) CreateCourseIntent(ctx context.Context, courseID uint, payerName, payerEmail string) (*client.PaymentIntentResponse, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	return s.PaymentClient.CreateIntent(ctx, &client.PaymentIntentRequest{
		Amount:     course.Price,
		Currency:   s.Currency,
		PayerName:  payerName,
		PayerEmail: payerEmail,
		Metadata: map[string]string{
			"kind":     "course",
			"courseId": strconv.FormatUint(uint64(course.ID), 10),
		},
	})
}

func (s *PaymentService) ListByStudent(studentID uint) ([]model.CoursePayment, error) {
	return s.PaymentRepo.ListByStudent(studentID)
}

func (s *PaymentService) List(page, pageSize int) ([]model.CoursePayment, int64, error) {
	return s.PaymentRepo.List(page, pageSize)
}

// MarkRefunded 仅改状态，流水行永不删除
func (s *PaymentService) MarkRefunded(paymentID uint) (*model.CoursePayment, error) {
	payment, err := s.PaymentRepo.FindByID(paymentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrPaymentNotFound
	} else if err != nil {
		return nil, err
	}
	payment.Status = model.PaymentRefunded
	if err := s.PaymentRepo.Save(payment); err != nil {
		return nil, err
	}
	return payment, nil
}
