package model

// Product 商店商品
// swagger:model Product
type Product struct {
	BaseModel
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Price       int64  `gorm:"not null" json:"price"` // 最小货币单位
	ImageURL    string `gorm:"size:255" json:"imageUrl"`
	Stock       int    `gorm:"default:0" json:"stock"`
	Active      bool   `gorm:"default:true" json:"active"`
}

func (Product) TableName() string {
	return "products"
}

// Order 商店订单；条目保存下单时刻的名称与单价快照
// swagger:model Order
type Order struct {
	BaseModel
	OrderNo         string        `gorm:"size:64;uniqueIndex;not null" json:"orderNo"`
	UserID          uint          `gorm:"index;not null" json:"userId"`
	Total           int64         `gorm:"not null" json:"total"`
	Currency        string        `gorm:"size:10;default:'usd'" json:"currency"`
	Status          PaymentStatus `gorm:"size:20;default:'pending'" json:"status"`
	StripePaymentID string        `gorm:"size:100" json:"stripePaymentId"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

func (Order) TableName() string {
	return "orders"
}

// swagger:model OrderItem
type OrderItem struct {
	BaseModel
	OrderID     uint   `gorm:"index;not null" json:"orderId"`
	ProductID   uint   `gorm:"index;not null" json:"productId"`
	ProductName string `gorm:"size:255" json:"productName"`
	UnitPrice   int64  `gorm:"not null" json:"unitPrice"`
	Quantity    int    `gorm:"not null" json:"quantity"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
