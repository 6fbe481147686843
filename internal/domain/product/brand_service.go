package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BrandService handles brand operations
type BrandService struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewBrandService creates a new brand service
func NewBrandService(db *gorm.DB, logger *logrus.Logger) *BrandService {
	return &BrandService{
		db:     db,
		logger: logger,
	}
}

// BrandRequest represents brand create/update data
type BrandRequest struct {
	Name string `json:"name" binding:"required,max=255"`
	Logo string `json:"logo" binding:"max=2048"`
}

// ListBrands returns all brands ordered by name
func (s *BrandService) ListBrands(ctx context.Context) ([]Brand, error) {
	var brands []Brand
	if err := s.db.WithContext(ctx).Order("name, id").Find(&brands).Error; err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	return brands, nil
}

// GetBrand returns a brand with its products
func (s *BrandService) GetBrand(ctx context.Context, id uint) (*Brand, error) {
	var brand Brand
	err := s.db.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("products.id") }).
		First(&brand, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBrandNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get brand: %w", err)
	}
	return &brand, nil
}

// CreateBrand creates a brand
func (s *BrandService) CreateBrand(ctx context.Context, req *BrandRequest) (*Brand, error) {
	brand := Brand{
		Name: strings.TrimSpace(req.Name),
		Logo: req.Logo,
	}
	if err := s.db.WithContext(ctx).Create(&brand).Error; err != nil {
		return nil, fmt.Errorf("failed to create brand: %w", err)
	}
	return &brand, nil
}

// UpdateBrand replaces name and logo
func (s *BrandService) UpdateBrand(ctx context.Context, id uint, req *BrandRequest) (*Brand, error) {
	var brand Brand
	if err := s.db.WithContext(ctx).First(&brand, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBrandNotFound
		}
		return nil, fmt.Errorf("failed to get brand: %w", err)
	}

	brand.Name = strings.TrimSpace(req.Name)
	brand.Logo = req.Logo
	if err := s.db.WithContext(ctx).Save(&brand).Error; err != nil {
		return nil, fmt.Errorf("failed to update brand: %w", err)
	}
	return &brand, nil
}

// DeleteBrand removes a brand and detaches it from products
func (s *BrandService) DeleteBrand(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var brand Brand
		if err := tx.First(&brand, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBrandNotFound
			}
			return fmt.Errorf("failed to get brand: %w", err)
		}
		if err := tx.Select("Products").Delete(&brand).Error; err != nil {
			return fmt.Errorf("failed to delete brand: %w", err)
		}
		s.logger.WithField("brand_id", id).Info("brand deleted")
		return nil
	})
}
