package service

import (
	"context"
	"testing"

	"hopebridge_backend/internal/model"
	"hopebridge_backend/internal/repository"
	"hopebridge_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newShopService(t *testing.T) (*ShopService, *fakePaymentClient, *gorm.DB) {
	db := setupTestDB(t)
	pc := &fakePaymentClient{}
	svc := NewShopService(
		repository.NewProductRepository(db),
		repository.NewOrderRepository(db),
		repository.NewUserRepository(db),
		pc,
		db,
		"usd",
	)
	return svc, pc, db
}

func seedProduct(t *testing.T, svc *ShopService, name string, price int64, stock int) *model.Product {
	t.Helper()
	product, err := svc.CreateProduct(&ProductRequest{
		Name:   name,
		Price:  price,
		Stock:  stock,
		Active: true,
	})
	require.NoError(t, err)
	return product
}

func TestCreateOrder(t *testing.T) {
	svc, pc, db := newShopService(t)
	shirt := seedProduct(t, svc, "Charity T-Shirt", 1500, 10)
	mug := seedProduct(t, svc, "Mug", 800, 5)

	user := &model.User{FirstName: "Buyer", LastName: "One", Email: "buyer@example.org", Password: "x"}
	require.NoError(t, db.Create(user).Error)

	resp, err := svc.CreateOrder(context.Background(), user.ID, &CreateOrderRequest{
		Items: []OrderLine{
			{ProductID: shirt.ID, Quantity: 2},
			{ProductID: mug.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2*1500+800), resp.Order.Total)
	assert.Equal(t, model.PaymentPending, resp.Order.Status)
	assert.NotEmpty(t, resp.Order.OrderNo)
	assert.NotEmpty(t, resp.ClientSecret)
	require.Len(t, resp.Order.Items, 2)
	assert.Equal(t, "Charity T-Shirt", resp.Order.Items[0].ProductName)
	assert.Equal(t, int64(1500), resp.Order.Items[0].UnitPrice)
	require.Len(t, pc.requests, 1)
	assert.Equal(t, resp.Order.Total, pc.requests[0].Amount)

	// 库存扣减
	stored, err := svc.GetProduct(shirt.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, stored.Stock)
}

func TestCreateOrderInsufficientStockRollsBack(t *testing.T) {
	svc, _, db := newShopService(t)
	shirt := seedProduct(t, svc, "Shirt", 1500, 3)
	mug := seedProduct(t, svc, "Mug", 800, 1)

	_, err := svc.CreateOrder(context.Background(), 1, &CreateOrderRequest{
		Items: []OrderLine{
			{ProductID: shirt.ID, Quantity: 2},
			{ProductID: mug.ID, Quantity: 5},
		},
	})
	assert.ErrorIs(t, err, util.ErrInsufficientStock)

	// 整单回滚，第一件商品的库存不动
	stored, err := svc.GetProduct(shirt.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Stock)

	var orderCount int64
	require.NoError(t, db.Model(&model.Order{}).Count(&orderCount).Error)
	assert.Equal(t, int64(0), orderCount)
}

func TestCreateOrderInactiveProduct(t *testing.T) {
	svc, _, _ := newShopService(t)
	product, err := svc.CreateProduct(&ProductRequest{Name: "Retired", Price: 100, Stock: 5, Active: false})
	require.NoError(t, err)

	_, err = svc.CreateOrder(context.Background(), 1, &CreateOrderRequest{
		Items: []OrderLine{{ProductID: product.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, util.ErrProductInactive)
}

func TestCreateOrderEmpty(t *testing.T) {
	svc, _, _ := newShopService(t)

	_, err := svc.CreateOrder(context.Background(), 1, &CreateOrderRequest{})
	assert.ErrorIs(t, err, util.ErrEmptyOrder)
}

func TestMarkPaidIdempotent(t *testing.T) {
	svc, _, _ := newShopService(t)
	product := seedProduct(t, svc, "Shirt", 1500, 3)

	resp, err := svc.CreateOrder(context.Background(), 1, &CreateOrderRequest{
		Items: []OrderLine{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	paid, err := svc.MarkPaid(resp.Order.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, paid.Status)

	again, err := svc.MarkPaid(resp.Order.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, again.Status)

	_, err = svc.MarkPaid("missing-order")
	assert.ErrorIs(t, err, util.ErrOrderNotFound)
}

func TestListProducts(t *testing.T) {
	svc, _, _ := newShopService(t)
	seedProduct(t, svc, "Active", 100, 1)
	_, err := svc.CreateProduct(&ProductRequest{Name: "Hidden", Price: 100, Active: false})
	require.NoError(t, err)

	visible, err := svc.ListProducts(false)
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	all, err := svc.ListProducts(true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
