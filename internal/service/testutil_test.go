package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"hopebridge_backend/internal/client"
	"hopebridge_backend/internal/model"
	"hopebridge_backend/pkg/logger"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.InitNop()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.CourseModule{},
		&model.Lesson{},
		&model.Enrollment{},
		&model.LessonProgress{},
		&model.CoursePayment{},
		&model.Donation{},
		&model.Event{},
		&model.EventRegistration{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.VolunteerApplication{},
		&model.GalleryItem{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

// fakePaymentClient 记录每次意向请求，返回递增的支付 ID
type fakePaymentClient struct {
	mu       sync.Mutex
	requests []*client.PaymentIntentRequest
	fail     bool
}

func (f *fakePaymentClient) CreateIntent(ctx context.Context, req *client.PaymentIntentRequest) (*client.PaymentIntentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, fmt.Errorf("payment gateway unavailable")
	}
	f.requests = append(f.requests, req)
	n := len(f.requests)
	return &client.PaymentIntentResponse{
		PaymentID:    fmt.Sprintf("pi_test_%d", n),
		ClientSecret: fmt.Sprintf("pi_test_%d_secret", n),
	}, nil
}

// fakeMailClient 同步记录邮件，避免测试中依赖 goroutine 时序
type fakeMailClient struct {
	mu   sync.Mutex
	sent []*client.MailRequest
}

func (f *fakeMailClient) Send(ctx context.Context, req *client.MailRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, req)
	return nil
}

func (f *fakeMailClient) SendAsync(req *client.MailRequest) {
	f.Send(context.Background(), req)
}

func (f *fakeMailClient) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}
