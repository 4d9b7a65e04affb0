package service

import (
	"context"
	"testing"
	"time"

	"hopebridge_backend/internal/model"
	"hopebridge_backend/internal/repository"
	"hopebridge_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDonationService(t *testing.T) (*DonationService, *fakePaymentClient, *fakeMailClient, *gorm.DB) {
	db := setupTestDB(t)
	pc := &fakePaymentClient{}
	mc := &fakeMailClient{}
	svc := NewDonationService(repository.NewDonationRepository(db), pc, mc, "usd")
	return svc, pc, mc, db
}

func TestDonateCreatesPendingWithIntent(t *testing.T) {
	svc, pc, _, _ := newDonationService(t)

	resp, err := svc.Donate(context.Background(), nil, &DonateRequest{
		DonorName:  "Maria Santos",
		DonorEmail: "maria@example.org",
		Amount:     5000,
	})
	require.NoError(t, err)

	assert.Equal(t, model.PaymentPending, resp.Donation.Status)
	assert.Equal(t, "pi_test_1", resp.Donation.StripePaymentID)
	assert.Equal(t, "pi_test_1_secret", resp.ClientSecret)
	require.Len(t, pc.requests, 1)
	assert.Equal(t, int64(5000), pc.requests[0].Amount)
}

func TestDonateIntentFailureDoesNotPersist(t *testing.T) {
	svc, pc, _, db := newDonationService(t)
	pc.fail = true

	_, err := svc.Donate(context.Background(), nil, &DonateRequest{
		DonorName:  "No One",
		DonorEmail: "noone@example.org",
		Amount:     100,
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&model.Donation{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestConfirmDonation(t *testing.T) {
	svc, _, mc, _ := newDonationService(t)

	resp, err := svc.Donate(context.Background(), nil, &DonateRequest{
		DonorName:  "Maria Santos",
		DonorEmail: "maria@example.org",
		Amount:     5000,
	})
	require.NoError(t, err)

	confirmed, err := svc.Confirm(resp.Donation.StripePaymentID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, confirmed.Status)
	assert.Equal(t, 1, mc.sentCount())

	// 重复回调幂等，不再发第二封感谢邮件
	again, err := svc.Confirm(resp.Donation.StripePaymentID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, again.Status)
	assert.Equal(t, 1, mc.sentCount())

	_, err = svc.Confirm("pi_unknown")
	assert.ErrorIs(t, err, util.ErrDonationNotFound)
}

func TestTotalRaisedCountsCompletedOnly(t *testing.T) {
	svc, _, _, _ := newDonationService(t)

	for _, amount := range []int64{1000, 2500, 400} {
		resp, err := svc.Donate(context.Background(), nil, &DonateRequest{
			DonorName:  "Donor",
			DonorEmail: "donor@example.org",
			Amount:     amount,
		})
		require.NoError(t, err)
		if amount != 400 {
			_, err = svc.Confirm(resp.Donation.StripePaymentID)
			require.NoError(t, err)
		}
	}

	total, err := svc.TotalRaised()
	require.NoError(t, err)
	assert.Equal(t, int64(3500), total)
}

func TestExpireStalePending(t *testing.T) {
	svc, _, _, db := newDonationService(t)

	resp, err := svc.Donate(context.Background(), nil, &DonateRequest{
		DonorName:  "Stale Donor",
		DonorEmail: "stale@example.org",
		Amount:     700,
	})
	require.NoError(t, err)

	// 把创建时间拨回过去，模拟长期未确认
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, db.Model(&model.Donation{}).
		Where("id = ?", resp.Donation.ID).
		Update("created_at", old).Error)

	n, err := svc.ExpireStalePending(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	stored, err := svc.Get(resp.Donation.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentFailed, stored.Status)

	// 已处理过的不再重复标记
	n, err = svc.ExpireStalePending(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
