// internal/domain/product/entity.go
package product

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/mobilestore-api/internal/pkg/money"
)

// Well-known platform values used by the catalog shortcuts
const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
)

// Product represents a catalog item
type Product struct {
	ID            uint                `gorm:"primaryKey" json:"id"`
	Name          string              `gorm:"size:255;not null" json:"name"`
	SKU           string              `gorm:"uniqueIndex;size:100;not null" json:"sku"`
	Price         decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"price"`
	DiscountPrice decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"discount_price"`
	Image         string              `gorm:"size:2048" json:"image"`
	Description   string              `gorm:"type:text" json:"description"`
	Platform      string              `gorm:"size:50;index" json:"platform"`
	Stock         int                 `gorm:"not null" json:"stock"`
	IsFeatured    bool                `gorm:"not null;index" json:"is_featured"`
	IsActive      bool                `gorm:"not null;index" json:"is_active"`
	Rating        decimal.Decimal     `gorm:"type:numeric(3,2);not null" json:"rating"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`

	// Filled by catalog queries, never stored
	ReviewsCount int64 `gorm:"->;-:migration" json:"reviews_count"`

	Categories []Category     `gorm:"many2many:category_product;" json:"categories,omitempty"`
	Brands     []Brand        `gorm:"many2many:brand_product;" json:"brands,omitempty"`
	Images     []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE;" json:"images,omitempty"`
	Reviews    []Review       `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE;" json:"-"`
}

// Category groups products
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Products []Product `gorm:"many2many:category_product;" json:"products,omitempty"`
}

// Brand is a manufacturer
type Brand struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Logo      string    `gorm:"size:2048" json:"logo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Products []Product `gorm:"many2many:brand_product;" json:"products,omitempty"`
}

// ProductImage is one gallery image of a product
type ProductImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"not null;index" json:"product_id"`
	URL       string `gorm:"size:2048;not null" json:"url"`
	IsPrimary bool   `gorm:"not null" json:"is_primary"`
	SortOrder int    `gorm:"not null" json:"sort_order"`
}

// Review is an anonymous, named product review
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	UserName  string    `gorm:"size:255;not null" json:"user_name"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Product) TableName() string      { return "products" }
func (Category) TableName() string     { return "categories" }
func (Brand) TableName() string        { return "brands" }
func (ProductImage) TableName() string { return "product_images" }
func (Review) TableName() string       { return "reviews" }

func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		Price         string  `json:"price"`
		DiscountPrice *string `json:"discount_price"`
	}{plain(p), money.Format(p.Price), money.FormatNull(p.DiscountPrice)})
}

// IsInStock reports whether any units are on hand
func (p *Product) IsInStock() bool {
	return p.Stock > 0
}
