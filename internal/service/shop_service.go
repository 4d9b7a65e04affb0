package service

import (
	"context"
	"errors"

	"hopebridge_backend/internal/client"
	"hopebridge_backend/internal/model"
	"hopebridge_backend/internal/repository"
	"hopebridge_backend/internal/util"
	"hopebridge_backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ShopService struct {
	ProductRepo   *repository.ProductRepository
	OrderRepo     *repository.OrderRepository
	UserRepo      *repository.UserRepository
	PaymentClient client.PaymentClient
	DB            *gorm.DB
	Currency      string
}

func NewShopService(
	productRepo *repository.ProductRepository,
	orderRepo *repository.OrderRepository,
	userRepo *repository.UserRepository,
	pc client.PaymentClient,
	db *gorm.DB,
	currency string,
) *ShopService {
	return &ShopService{
		ProductRepo:   productRepo,
		OrderRepo:     orderRepo,
		UserRepo:      userRepo,
		PaymentClient: pc,
		DB:            db,
		Currency:      currency,
	}
}

type ProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" binding:"required,gte=0"`
	ImageURL    string `json:"imageUrl"`
	Stock       int    `json:"stock"`
	Active      bool   `json:"active"`
}

func (s *ShopService) CreateProduct(req *ProductRequest) (*model.Product, error) {
	product := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		Active:      req.Active,
	}
	if err := s.ProductRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ShopService) UpdateProduct(id uint, req *ProductRequest) (*model.Product, error) {
	product, err := s.ProductRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrProductNotFound
	} else if err != nil {
		return nil, err
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.ImageURL = req.ImageURL
	product.Stock = req.Stock
	product.Active = req.Active

	if err := s.ProductRepo.Save(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ShopService) DeleteProduct(id uint) error {
	if _, err := s.ProductRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrProductNotFound
		}
		return err
	}
	return s.ProductRepo.Delete(id)
}

func (s *ShopService) GetProduct(id uint) (*model.Product, error) {
	product, err := s.ProductRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrProductNotFound
	}
	return product, err
}

func (s *ShopService) ListProducts(includeInactive bool) ([]model.Product, error) {
	if includeInactive {
		return s.ProductRepo.ListAll()
	}
	return s.ProductRepo.ListActive()
}

type OrderLine struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

type CreateOrderRequest struct {
	Items []OrderLine `json:"items" binding:"required,dive"`
}

type CreateOrderResponse struct {
	Order        *model.Order `json:"order"`
	ClientSecret string       `json:"clientSecret"`
}

// CreateOrder 下单：校验库存、扣减库存、写订单与条目快照，全部在一个事务内。
// 任一商品缺货则整单失败，库存不动。事务提交后才创建支付意向。
func (s *ShopService) CreateOrder(ctx context.Context, userID uint, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, util.ErrEmptyOrder
	}

	order := &model.Order{
		OrderNo:  uuid.New().String(),
		UserID:   userID,
		Currency: s.Currency,
		Status:   model.PaymentPending,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var total int64
		items := make([]model.OrderItem, 0, len(req.Items))

		for _, line := range req.Items {
			var product model.Product
			if err := tx.First(&product, line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return util.ErrProductNotFound
				}
				return err
			}
			if !product.Active {
				return util.ErrProductInactive
			}
			if product.Stock < line.Quantity {
				return util.ErrInsufficientStock
			}

			product.Stock -= line.Quantity
			if err := tx.Save(&product).Error; err != nil {
				return err
			}

			total += product.Price * int64(line.Quantity)
			items = append(items, model.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				UnitPrice:   product.Price,
				Quantity:    line.Quantity,
			})
		}

		order.Total = total
		order.Items = items
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, err
	}

	payerName, payerEmail := "", ""
	if user, err := s.UserRepo.FindByID(userID); err == nil {
		payerName, payerEmail = user.FullName(), user.Email
	}

	intent, err := s.PaymentClient.CreateIntent(ctx, &client.PaymentIntentRequest{
		Amount:     order.Total,
		Currency:   s.Currency,
		PayerName:  payerName,
		PayerEmail: payerEmail,
		Metadata: map[string]string{
			"kind":    "shop",
			"orderNo": order.OrderNo,
		},
	})
	if err != nil {
		return nil, err
	}

	order.StripePaymentID = intent.PaymentID
	if err := s.OrderRepo.Save(order); err != nil {
		return nil, err
	}

	logger.Log.Info("Shop order created",
		zap.String("orderNo", order.OrderNo),
		zap.Uint("userID", userID),
		zap.Int64("total", order.Total))
	return &CreateOrderResponse{Order: order, ClientSecret: intent.ClientSecret}, nil
}

// MarkPaid 支付回调将订单置为 completed；重复回调幂等
func (s *ShopService) MarkPaid(orderNo string) (*model.Order, error) {
	order, err := s.OrderRepo.FindByOrderNo(orderNo)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrOrderNotFound
	} else if err != nil {
		return nil, err
	}

	if order.Status == model.PaymentCompleted {
		return order, nil
	}

	order.Status = model.PaymentCompleted
	if err := s.OrderRepo.Save(order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *ShopService) GetOrder(id uint) (*model.Order, error) {
	order, err := s.OrderRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrOrderNotFound
	}
	return order, err
}

func (s *ShopService) ListMyOrders(userID uint) ([]model.Order, error) {
	return s.OrderRepo.ListByUser(userID)
}

func (s *ShopService) ListOrders(page, pageSize int) ([]model.Order, int64, error) {
	return s.OrderRepo.List(page, pageSize)
}
