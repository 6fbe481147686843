// internal/domain/product/service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/mobilestore-api/internal/infrastructure/database/pgerrors"
	"github.com/your-org/mobilestore-api/internal/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PerPage is the catalog page size
const PerPage = 12

const reviewsCountColumn = "(SELECT COUNT(*) FROM reviews WHERE reviews.product_id = products.id) AS reviews_count"

// Service handles catalog reads and admin product management
type Service struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewService creates a new product service
func NewService(db *gorm.DB, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

// ListFilter narrows a catalog listing
type ListFilter struct {
	Platform     string
	FeaturedOnly bool
	ActiveOnly   bool
}

// ImageInput describes one gallery image in a create/update request
type ImageInput struct {
	URL       string `json:"url" binding:"required,max=2048"`
	IsPrimary bool   `json:"is_primary"`
}

// CreateProductRequest represents admin product creation data
type CreateProductRequest struct {
	Name          string           `json:"name" binding:"required,max=255"`
	SKU           string           `json:"sku" binding:"required,max=100"`
	Price         *decimal.Decimal `json:"price" binding:"required,gte=0"`
	DiscountPrice *decimal.Decimal `json:"discount_price" binding:"omitempty,gte=0"`
	Stock         int              `json:"stock" binding:"gte=0"`
	Platform      string           `json:"platform" binding:"max=50"`
	Image         string           `json:"image" binding:"max=2048"`
	Description   string           `json:"description"`
	IsFeatured    bool             `json:"is_featured"`
	IsActive      *bool            `json:"is_active"`
	Rating        *decimal.Decimal `json:"rating" binding:"omitempty,gte=0,lte=5"`
	CategoryIDs   []uint           `json:"category_ids"`
	BrandIDs      []uint           `json:"brand_ids"`
	Images        []ImageInput     `json:"images" binding:"omitempty,dive"`
}

// UpdateProductRequest is a partial update. A nil slice leaves the relation as is,
// an empty one clears it.
type UpdateProductRequest struct {
	Name          *string          `json:"name" binding:"omitempty,max=255"`
	SKU           *string          `json:"sku" binding:"omitempty,max=100"`
	Price         *decimal.Decimal `json:"price" binding:"omitempty,gte=0"`
	DiscountPrice *decimal.Decimal `json:"discount_price" binding:"omitempty,gte=0"`
	Stock         *int             `json:"stock" binding:"omitempty,gte=0"`
	Platform      *string          `json:"platform" binding:"omitempty,max=50"`
	Image         *string          `json:"image" binding:"omitempty,max=2048"`
	Description   *string          `json:"description"`
	IsFeatured    *bool            `json:"is_featured"`
	IsActive      *bool            `json:"is_active"`
	Rating        *decimal.Decimal `json:"rating" binding:"omitempty,gte=0,lte=5"`
	CategoryIDs   []uint           `json:"category_ids"`
	BrandIDs      []uint           `json:"brand_ids"`
	Images        []ImageInput     `json:"images" binding:"omitempty,dive"`
}

// ListProducts returns one page of the catalog
func (s *Service) ListProducts(ctx context.Context, filter ListFilter, page int) (*pagination.Page[Resource], error) {
	return s.paginate(ctx, page, func(db *gorm.DB) *gorm.DB {
		if filter.Platform != "" {
			db = db.Where("products.platform = ?", filter.Platform)
		}
		if filter.FeaturedOnly {
			db = db.Where("products.is_featured = ?", true)
		}
		if filter.ActiveOnly {
			db = db.Where("products.is_active = ?", true)
		}
		return db
	})
}

// SearchProducts matches q against name, sku and the names or logos of attached brands
func (s *Service) SearchProducts(ctx context.Context, q string, page int) (*pagination.Page[Resource], error) {
	q = strings.TrimSpace(q)
	return s.paginate(ctx, page, func(db *gorm.DB) *gorm.DB {
		if q == "" {
			return db
		}
		pattern := likePattern(q)
		return db.Where(
			`products.name ILIKE @q OR products.sku ILIKE @q OR EXISTS (
				SELECT 1 FROM brand_product bp JOIN brands b ON b.id = bp.brand_id
				WHERE bp.product_id = products.id AND (b.name ILIKE @q OR b.logo ILIKE @q))`,
			map[string]interface{}{"q": pattern},
		)
	})
}

// GetProduct returns a product with its relations
func (s *Service) GetProduct(ctx context.Context, id uint) (*Resource, error) {
	p, err := s.load(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	res := NewResource(*p)
	return &res, nil
}

// AdminListProducts returns every product, newest first
func (s *Service) AdminListProducts(ctx context.Context) ([]Resource, error) {
	var products []Product
	err := withRelations(s.db.WithContext(ctx).Model(&Product{})).
		Order("products.created_at DESC, products.id DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return NewResources(products), nil
}

// CreateProduct stores a product with its categories, brands and images
func (s *Service) CreateProduct(ctx context.Context, req *CreateProductRequest) (*Resource, error) {
	var created *Product

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categories, err := findCategories(tx, req.CategoryIDs)
		if err != nil {
			return err
		}
		brands, err := findBrands(tx, req.BrandIDs)
		if err != nil {
			return err
		}

		p := Product{
			Name:        strings.TrimSpace(req.Name),
			SKU:         strings.TrimSpace(req.SKU),
			Price:       *req.Price,
			Stock:       req.Stock,
			Platform:    req.Platform,
			Image:       req.Image,
			Description: req.Description,
			IsFeatured:  req.IsFeatured,
			IsActive:    req.IsActive == nil || *req.IsActive,
			Rating:      decimal.Zero,
			Categories:  categories,
			Brands:      brands,
			Images:      toImages(req.Images),
		}
		if req.DiscountPrice != nil {
			p.DiscountPrice = decimal.NewNullDecimal(*req.DiscountPrice)
		}
		if req.Rating != nil {
			p.Rating = *req.Rating
		}

		if err := tx.Omit("Categories.*", "Brands.*").Create(&p).Error; err != nil {
			if pgerrors.IsUniqueViolation(err) {
				return ErrSKUTaken
			}
			return fmt.Errorf("failed to create product: %w", err)
		}

		created, err = s.load(tx, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"product_id": created.ID, "sku": created.SKU}).Info("product created")

	res := NewResource(*created)
	return &res, nil
}

// UpdateProduct applies a partial update
func (s *Service) UpdateProduct(ctx context.Context, id uint, req *UpdateProductRequest) (*Resource, error) {
	var updated *Product

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.load(tx, id)
		if err != nil {
			return err
		}

		if changes := req.changes(); len(changes) > 0 {
			if err := tx.Model(p).Omit(clause.Associations).Updates(changes).Error; err != nil {
				if pgerrors.IsUniqueViolation(err) {
					return ErrSKUTaken
				}
				return fmt.Errorf("failed to update product: %w", err)
			}
		}

		if req.CategoryIDs != nil {
			categories, err := findCategories(tx, req.CategoryIDs)
			if err != nil {
				return err
			}
			if err := replaceAssociation(tx, p, "Categories", categories); err != nil {
				return err
			}
		}

		if req.BrandIDs != nil {
			brands, err := findBrands(tx, req.BrandIDs)
			if err != nil {
				return err
			}
			if err := replaceAssociation(tx, p, "Brands", brands); err != nil {
				return err
			}
		}

		if req.Images != nil {
			if err := tx.Where("product_id = ?", p.ID).Delete(&ProductImage{}).Error; err != nil {
				return fmt.Errorf("failed to replace images: %w", err)
			}
			images := toImages(req.Images)
			for i := range images {
				images[i].ProductID = p.ID
			}
			if len(images) > 0 {
				if err := tx.Create(&images).Error; err != nil {
					return fmt.Errorf("failed to replace images: %w", err)
				}
			}
		}

		updated, err = s.load(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	res := NewResource(*updated)
	return &res, nil
}

// DeleteProduct removes a product with its images, reviews and pivot rows.
// Cart lines referencing it cascade; order lines keep their snapshot.
func (s *Service) DeleteProduct(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p Product
		if err := tx.First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("failed to get product: %w", err)
		}

		if err := tx.Select(clause.Associations).Delete(&p).Error; err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}

		s.logger.WithField("product_id", id).Info("product deleted")
		return nil
	})
}

func (s *Service) paginate(ctx context.Context, page int, scope func(*gorm.DB) *gorm.DB) (*pagination.Page[Resource], error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&Product{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	var products []Product
	err := withRelations(s.db.WithContext(ctx).Model(&Product{})).
		Scopes(scope, pagination.Paginate(page, PerPage)).
		Order("products.id").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	return pagination.New(NewResources(products), page, PerPage, total), nil
}

func (s *Service) load(db *gorm.DB, id uint) (*Product, error) {
	var p Product
	err := withRelations(db.Model(&Product{})).Where("products.id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Select("products.*, " + reviewsCountColumn).
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("categories.id") }).
		Preload("Brands", func(db *gorm.DB) *gorm.DB { return db.Order("brands.id") }).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order, id") })
}

func (r *UpdateProductRequest) changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if r.Name != nil {
		changes["name"] = strings.TrimSpace(*r.Name)
	}
	if r.SKU != nil {
		changes["sku"] = strings.TrimSpace(*r.SKU)
	}
	if r.Price != nil {
		changes["price"] = *r.Price
	}
	if r.DiscountPrice != nil {
		changes["discount_price"] = decimal.NewNullDecimal(*r.DiscountPrice)
	}
	if r.Stock != nil {
		changes["stock"] = *r.Stock
	}
	if r.Platform != nil {
		changes["platform"] = *r.Platform
	}
	if r.Image != nil {
		changes["image"] = *r.Image
	}
	if r.Description != nil {
		changes["description"] = *r.Description
	}
	if r.IsFeatured != nil {
		changes["is_featured"] = *r.IsFeatured
	}
	if r.IsActive != nil {
		changes["is_active"] = *r.IsActive
	}
	if r.Rating != nil {
		changes["rating"] = *r.Rating
	}
	return changes
}

func findCategories(tx *gorm.DB, ids []uint) ([]Category, error) {
	ids = lo.Uniq(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	var categories []Category
	if err := tx.Where("id IN ?", ids).Order("id").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	if len(categories) != len(ids) {
		return nil, &UnknownReferenceError{Field: "category_ids", IDs: ids}
	}
	return categories, nil
}

func findBrands(tx *gorm.DB, ids []uint) ([]Brand, error) {
	ids = lo.Uniq(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	var brands []Brand
	if err := tx.Where("id IN ?", ids).Order("id").Find(&brands).Error; err != nil {
		return nil, fmt.Errorf("failed to load brands: %w", err)
	}
	if len(brands) != len(ids) {
		return nil, &UnknownReferenceError{Field: "brand_ids", IDs: ids}
	}
	return brands, nil
}

func replaceAssociation[T any](tx *gorm.DB, p *Product, name string, values []T) error {
	assoc := tx.Model(p).Omit(name + ".*").Association(name)

	var err error
	if len(values) == 0 {
		err = assoc.Clear()
	} else {
		err = assoc.Replace(values)
	}
	if err != nil {
		return fmt.Errorf("failed to replace %s: %w", strings.ToLower(name), err)
	}
	return nil
}

func toImages(inputs []ImageInput) []ProductImage {
	images := make([]ProductImage, 0, len(inputs))
	for i, in := range inputs {
		images = append(images, ProductImage{URL: in.URL, IsPrimary: in.IsPrimary, SortOrder: i})
	}
	return images
}

// likePattern escapes LIKE metacharacters and wraps q for a substring match
func likePattern(q string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(q) + "%"
}
