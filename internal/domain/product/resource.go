package product

import (
	"encoding/json"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/your-org/mobilestore-api/internal/pkg/money"
)

// Resource is the public JSON shape of a product
type Resource struct {
	ID            uint                `json:"id"`
	Name          string              `json:"name"`
	SKU           string              `json:"sku"`
	Price         decimal.Decimal     `json:"price"`
	DiscountPrice decimal.NullDecimal `json:"discount_price"`
	Stock         int                 `json:"stock"`
	Platform      string              `json:"platform"`
	IsFeatured    bool                `json:"is_featured"`
	IsActive      bool                `json:"is_active"`
	Rating        decimal.Decimal     `json:"rating"`
	Image         string              `json:"image"`
	Description   string              `json:"description"`
	PrimaryImage  string              `json:"primary_image"`
	GalleryImages []string            `json:"gallery_images"`
	Brand         []string            `json:"brand"`
	Categories    []string            `json:"categories"`
	ReviewsCount  int64               `json:"reviews_count"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// MarshalJSON renders the prices with two decimal places
func (r Resource) MarshalJSON() ([]byte, error) {
	type plain Resource
	return json.Marshal(struct {
		plain
		Price         string  `json:"price"`
		DiscountPrice *string `json:"discount_price"`
	}{plain(r), money.Format(r.Price), money.FormatNull(r.DiscountPrice)})
}

// NewResource shapes p for the API. Relations must already be loaded.
func NewResource(p Product) Resource {
	return Resource{
		ID:            p.ID,
		Name:          p.Name,
		SKU:           p.SKU,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		Stock:         p.Stock,
		Platform:      p.Platform,
		IsFeatured:    p.IsFeatured,
		IsActive:      p.IsActive,
		Rating:        p.Rating,
		Image:         p.Image,
		Description:   p.Description,
		PrimaryImage:  primaryImage(p),
		GalleryImages: lo.Map(p.Images, func(img ProductImage, _ int) string { return img.URL }),
		Brand:         lo.Map(p.Brands, func(b Brand, _ int) string { return b.Name }),
		Categories:    lo.Map(p.Categories, func(c Category, _ int) string { return c.Name }),
		ReviewsCount:  p.ReviewsCount,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// NewResources shapes a slice of products
func NewResources(products []Product) []Resource {
	return lo.Map(products, func(p Product, _ int) Resource { return NewResource(p) })
}

// primaryImage prefers the flagged gallery image, then the first gallery
// image, then the product's own image field.
func primaryImage(p Product) string {
	if img, ok := lo.Find(p.Images, func(img ProductImage) bool { return img.IsPrimary }); ok {
		return img.URL
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return p.Image
}
