// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/mobilestore-api/internal/domain/product"
	"github.com/your-org/mobilestore-api/internal/infrastructure/database/pgerrors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service handles cart business logic
type Service struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewService creates a new cart service
func NewService(db *gorm.DB, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

// MaxQuantity caps the quantity of a single cart line
const MaxQuantity = 1000

// AddItemRequest represents add to cart request
type AddItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1,max=1000"`
}

// UpdateItemRequest represents update cart item request
type UpdateItemRequest struct {
	ItemID   uint `json:"item_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1,max=1000"`
}

// GetCart returns the user's cart, creating an empty one on first use
func (s *Service) GetCart(ctx context.Context, userID uint) (*Cart, error) {
	c, err := ensureCart(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, c.ID)
}

// AddItem adds quantity units of a product. An existing line for the same
// product keeps its price and has its quantity increased.
func (s *Service) AddItem(ctx context.Context, userID uint, req *AddItemRequest) (*Cart, error) {
	var cartID uint

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ensureCart(tx, userID); err != nil {
			return err
		}
		c, err := lockCart(tx, userID)
		if err != nil {
			return err
		}
		cartID = c.ID

		var p product.Product
		if err := tx.Select("id", "price").First(&p, req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownProduct
			}
			return fmt.Errorf("failed to get product: %w", err)
		}

		var existing CartItem
		err = tx.Where("cart_id = ? AND product_id = ?", c.ID, p.ID).First(&existing).Error
		switch {
		case err == nil:
			quantity := existing.Quantity + req.Quantity
			if quantity > MaxQuantity {
				return ErrQuantityLimit
			}
			if err := tx.Model(&existing).Update("quantity", quantity).Error; err != nil {
				return fmt.Errorf("failed to update cart item: %w", err)
			}
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("failed to get cart item: %w", err)
		}

		item := CartItem{
			CartID:    c.ID,
			ProductID: p.ID,
			Quantity:  req.Quantity,
			Price:     p.Price,
		}
		if err := tx.Create(&item).Error; err != nil {
			// product deleted after the lookup above
			if pgerrors.IsForeignKeyViolation(err) {
				return ErrUnknownProduct
			}
			return fmt.Errorf("failed to add cart item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"product_id": req.ProductID,
		"quantity":   req.Quantity,
	}).Debug("cart item added")

	return s.load(ctx, cartID)
}

// UpdateItem sets the quantity of one of the user's cart lines
func (s *Service) UpdateItem(ctx context.Context, userID uint, req *UpdateItemRequest) (*Cart, error) {
	if req.Quantity > MaxQuantity {
		return nil, ErrQuantityLimit
	}

	var cartID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := ownedItem(tx, userID, req.ItemID)
		if err != nil {
			return err
		}
		cartID = item.CartID

		if err := tx.Model(item).Update("quantity", req.Quantity).Error; err != nil {
			return fmt.Errorf("failed to update cart item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.load(ctx, cartID)
}

// RemoveItem deletes one of the user's cart lines
func (s *Service) RemoveItem(ctx context.Context, userID, itemID uint) (*Cart, error) {
	var cartID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := ownedItem(tx, userID, itemID)
		if err != nil {
			return err
		}
		cartID = item.CartID

		if err := tx.Delete(item).Error; err != nil {
			return fmt.Errorf("failed to remove cart item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.load(ctx, cartID)
}

// Clear deletes every line of the user's cart. The cart row is kept.
func (s *Service) Clear(ctx context.Context, userID uint) error {
	db := s.db.WithContext(ctx)
	carts := db.Model(&Cart{}).Select("id").Where("user_id = ?", userID)
	if err := db.Where("cart_id IN (?)", carts).Delete(&CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// ownedItem locks the user's cart and returns one of its lines
func ownedItem(tx *gorm.DB, userID, itemID uint) (*CartItem, error) {
	c, err := lockCart(tx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, err
	}

	var item CartItem
	err = tx.Where("id = ? AND cart_id = ?", itemID, c.ID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	return &item, nil
}

// lockCart takes the same row lock as checkout, so line changes and order
// placement for one user are serialised.
func lockCart(tx *gorm.DB, userID uint) (*Cart, error) {
	var c Cart
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&c).Error
	if err != nil {
		return nil, fmt.Errorf("failed to lock cart: %w", err)
	}
	return &c, nil
}

func (s *Service) load(ctx context.Context, cartID uint) (*Cart, error) {
	var c Cart
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.id") }).
		Preload("Items.Product").
		First(&c, cartID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	c.Total = LinesTotal(c.Items)
	return &c, nil
}

// ensureCart returns the user's cart row, inserting it when missing
func ensureCart(db *gorm.DB, userID uint) (*Cart, error) {
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&Cart{UserID: userID}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	var c Cart
	if err := db.Where("user_id = ?", userID).First(&c).Error; err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return &c, nil
}
