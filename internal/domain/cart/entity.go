// internal/domain/cart/entity.go
package cart

import (
	"encoding/json"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/your-org/mobilestore-api/internal/domain/product"
	"github.com/your-org/mobilestore-api/internal/pkg/money"
)

// Cart is the single in-progress cart of a user
type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE;" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Total decimal.Decimal `gorm:"-" json:"total"`
}

// CartItem is one product line. Price is captured when the product is added
// and is not refreshed from the catalog afterwards.
type CartItem struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	CartID    uint             `gorm:"not null;uniqueIndex:idx_cart_items_cart_product" json:"cart_id"`
	ProductID uint             `gorm:"not null;uniqueIndex:idx_cart_items_cart_product;index" json:"product_id"`
	Quantity  int              `gorm:"not null;check:chk_cart_items_quantity,quantity >= 1" json:"quantity"`
	Price     decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"price"`
	Product   *product.Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE;" json:"product,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (Cart) TableName() string     { return "carts" }
func (CartItem) TableName() string { return "cart_items" }

func (c Cart) MarshalJSON() ([]byte, error) {
	type plain Cart
	return json.Marshal(struct {
		plain
		Total string `json:"total"`
	}{plain(c), money.Format(c.Total)})
}

func (i CartItem) MarshalJSON() ([]byte, error) {
	type plain CartItem
	return json.Marshal(struct {
		plain
		Price string `json:"price"`
	}{plain(i), money.Format(i.Price)})
}

// Subtotal is quantity times the captured price
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// LinesTotal sums the subtotals of items
func LinesTotal(items []CartItem) decimal.Decimal {
	return lo.Reduce(items, func(sum decimal.Decimal, item CartItem, _ int) decimal.Decimal {
		return sum.Add(item.Subtotal())
	}, decimal.Zero)
}
