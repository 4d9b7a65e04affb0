package service

import (
	"context"
	"errors"
	"time"

	"hopebridge_backend/internal/client"
	"hopebridge_backend/internal/model"
	"hopebridge_backend/internal/repository"
	"hopebridge_backend/internal/util"
	"hopebridge_backend/pkg/logger"
	"hopebridge_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type DonationService struct {
	DonationRepo  *repository.DonationRepository
	PaymentClient client.PaymentClient
	MailClient    client.MailClient
	Currency      string
}

func NewDonationService(donationRepo *repository.DonationRepository, pc client.PaymentClient, mc client.MailClient, currency string) *DonationService {
	return &DonationService{
		DonationRepo:  donationRepo,
		PaymentClient: pc,
		MailClient:    mc,
		Currency:      currency,
	}
}

type DonateRequest struct {
	DonorName  string `json:"donorName" binding:"required"`
	DonorEmail string `json:"donorEmail" binding:"required,email"`
	Message    string `json:"message"`
	Anonymous  bool   `json:"anonymous"`
	Amount     int64  `json:"amount" binding:"required,gt=0"`
}

type DonateResponse struct {
	Donation     *model.Donation `json:"donation"`
	ClientSecret string          `json:"clientSecret"`
}

// Donate 创建待支付捐赠并向托管支付函数申请意向。
// 意向创建失败时不落库，捐赠记录只在拿到 paymentId 后写入。
func (s *DonationService) Donate(ctx context.Context, userID *uint, req *DonateRequest) (*DonateResponse, error) {
	intent, err := s.PaymentClient.CreateIntent(ctx, &client.PaymentIntentRequest{
		Amount:     req.Amount,
		Currency:   s.Currency,
		PayerName:  req.DonorName,
		PayerEmail: req.DonorEmail,
		Metadata:   map[string]string{"kind": "donation"},
	})
	if err != nil {
		return nil, err
	}

	donation := &model.Donation{
		DonorName:       req.DonorName,
		DonorEmail:      req.DonorEmail,
		Message:         req.Message,
		Anonymous:       req.Anonymous,
		Amount:          req.Amount,
		Currency:        s.Currency,
		Status:          model.PaymentPending,
		StripePaymentID: intent.PaymentID,
		UserID:          userID,
	}
	if err := s.DonationRepo.Create(donation); err != nil {
		return nil, err
	}

	return &DonateResponse{Donation: donation, ClientSecret: intent.ClientSecret}, nil
}

// Confirm 支付回调确认捐赠到账，置为 completed 并异步发送感谢邮件。
// 重复回调幂等，已确认的捐赠直接返回。
func (s *DonationService) Confirm(paymentID string) (*model.Donation, error) {
	donation, err := s.DonationRepo.FindByPaymentID(paymentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrDonationNotFound
	} else if err != nil {
		return nil, err
	}

	if donation.Status == model.PaymentCompleted {
		return donation, nil
	}

	donation.Status = model.PaymentCompleted
	if err := s.DonationRepo.Save(donation); err != nil {
		return nil, err
	}

	s.MailClient.SendAsync(&client.MailRequest{
		To:       donation.DonorEmail,
		ToName:   donation.DonorName,
		Template: "donation_thanks",
		Context: map[string]interface{}{
			"donorName": donation.DonorName,
			"amount":    donation.Amount,
			"currency":  donation.Currency,
		},
	})

	monitoring.DonationAmount.Add(float64(donation.Amount))
	logger.Log.Info("Donation confirmed",
		zap.Uint("donationID", donation.ID),
		zap.Int64("amount", donation.Amount))
	return donation, nil
}

func (s *DonationService) Get(id uint) (*model.Donation, error) {
	donation, err := s.DonationRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrDonationNotFound
	}
	return donation, err
}

func (s *DonationService) List(page, pageSize int) ([]model.Donation, int64, error) {
	return s.DonationRepo.List(page, pageSize)
}

// TotalRaised 已确认捐赠的累计金额（最小货币单位）
func (s *DonationService) TotalRaised() (int64, error) {
	return s.DonationRepo.TotalCompleted()
}

// ExpireStalePending 对账兜底：超过 cutoff 仍未确认的 pending 捐赠标记为 failed。
// 由后台定时任务周期调用。
func (s *DonationService) ExpireStalePending(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	n, err := s.DonationRepo.MarkStaleFailed(cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Log.Info("Expired stale pending donations", zap.Int64("count", n))
	}
	return n, nil
}
