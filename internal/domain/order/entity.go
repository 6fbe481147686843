// internal/domain/order/entity.go
package order

import (
	"encoding/json"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/your-org/mobilestore-api/internal/domain/product"
	"github.com/your-org/mobilestore-api/internal/domain/user"
	"github.com/your-org/mobilestore-api/internal/pkg/money"
)

// Status represents the order status
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusPaid       Status = "paid"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every status an order may hold
var Statuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusPaid,
	StatusShipped,
	StatusDelivered,
	StatusCompleted,
	StatusCancelled,
}

// ParseStatus validates raw against the known statuses
func ParseStatus(raw string) (Status, error) {
	status := Status(raw)
	if !lo.Contains(Statuses, status) {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// Order is a placed order. Only Status changes after creation.
type Order struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	Total     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	Status    Status          `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	User  *user.User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE;" json:"items"`
}

// OrderItem is a snapshot of a cart line. ProductID is a weak reference with
// no foreign key so order history survives product deletion.
type OrderItem struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	OrderID   uint             `gorm:"not null;index" json:"order_id"`
	ProductID uint             `gorm:"not null;index" json:"product_id"`
	Quantity  int              `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"price"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Product   *product.Product `gorm:"foreignKey:ProductID;-:migration" json:"product"`
}

func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }

func (o Order) MarshalJSON() ([]byte, error) {
	type plain Order
	return json.Marshal(struct {
		plain
		Total string `json:"total"`
	}{plain(o), money.Format(o.Total)})
}

func (i OrderItem) MarshalJSON() ([]byte, error) {
	type plain OrderItem
	return json.Marshal(struct {
		plain
		Price string `json:"price"`
	}{plain(i), money.Format(i.Price)})
}

// Subtotal is quantity times the snapshotted price
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
