// internal/domain/product/review_service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/your-org/mobilestore-api/internal/infrastructure/database/pgerrors"
	"gorm.io/gorm"
)

// ReviewService handles product reviews
type ReviewService struct {
	db *gorm.DB
}

// NewReviewService creates a new review service
func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// CreateReviewRequest represents a new review
type CreateReviewRequest struct {
	UserName string `json:"user_name" binding:"required,max=255"`
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Comment  string `json:"comment" binding:"required"`
}

// ListReviews returns the reviews of a product, latest first
func (s *ReviewService) ListReviews(ctx context.Context, productID uint) ([]Review, error) {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}

	var reviews []Review
	err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// CreateReview stores a review for a product
func (s *ReviewService) CreateReview(ctx context.Context, productID uint, req *CreateReviewRequest) (*Review, error) {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}

	review := Review{
		ProductID: productID,
		UserName:  strings.TrimSpace(req.UserName),
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.db.WithContext(ctx).Create(&review).Error; err != nil {
		// product deleted since ensureProduct
		if pgerrors.IsForeignKeyViolation(err) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return &review, nil
}

func (s *ReviewService) ensureProduct(ctx context.Context, productID uint) error {
	var p Product
	err := s.db.WithContext(ctx).Select("id").First(&p, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get product: %w", err)
	}
	return nil
}
