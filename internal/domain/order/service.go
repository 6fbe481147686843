// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/your-org/mobilestore-api/internal/domain/cart"
	"github.com/your-org/mobilestore-api/internal/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PerPage is the page size of a user's order history
const PerPage = 10

// Service handles order business logic
type Service struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewService creates a new order service
func NewService(db *gorm.DB, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

// UpdateStatusRequest represents an admin status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PlaceOrder turns the user's cart into a pending order and empties the cart,
// all in one transaction. The cart row is locked first so that concurrent
// checkouts of the same user serialise and the later one sees an empty cart.
func (s *Service) PlaceOrder(ctx context.Context, userID uint) (*Order, error) {
	var placed Order
	var items []OrderItem

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c cart.Cart
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&c).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmptyCart
		}
		if err != nil {
			return fmt.Errorf("lock cart: %w", err)
		}

		var lines []cart.CartItem
		if err := tx.Where("cart_id = ?", c.ID).Order("id").Find(&lines).Error; err != nil {
			return fmt.Errorf("read cart items: %w", err)
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		placed = Order{
			UserID: userID,
			Status: StatusPending,
			Total:  cart.LinesTotal(lines),
		}
		if err := tx.Omit(clause.Associations).Create(&placed).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		items = lo.Map(lines, func(line cart.CartItem, _ int) OrderItem {
			return OrderItem{
				OrderID:   placed.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     line.Price,
			}
		})
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("create order items: %w", err)
		}

		if err := tx.Where("cart_id = ?", c.ID).Delete(&cart.CartItem{}).Error; err != nil {
			return fmt.Errorf("empty cart: %w", err)
		}
		return nil
	})
	if errors.Is(err, ErrEmptyCart) {
		return nil, err
	}
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("order creation rolled back")
		return nil, &CreationError{Err: err}
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": placed.ID,
		"user_id":  userID,
		"total":    placed.Total.StringFixed(2),
	}).Info("order placed")

	// The order is committed at this point. If the reload fails, answer with
	// what was written rather than an error the client would retry.
	var o Order
	if err := withItems(s.db.WithContext(ctx)).First(&o, placed.ID).Error; err != nil {
		s.logger.WithError(err).WithField("order_id", placed.ID).Warn("failed to reload placed order")
		placed.Items = items
		return &placed, nil
	}
	return &o, nil
}

// ListUserOrders returns one page of the user's orders, newest first
func (s *Service) ListUserOrders(ctx context.Context, userID uint, page int) (*pagination.Page[Order], error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&Order{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []Order
	err := withItems(db).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Scopes(pagination.Paginate(page, PerPage)).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	return pagination.New(orders, page, PerPage, total), nil
}

// GetUserOrder returns one of the user's orders. Orders of other users are
// reported as missing.
func (s *Service) GetUserOrder(ctx context.Context, userID, id uint) (*Order, error) {
	var o Order
	err := withItems(s.db.WithContext(ctx)).
		Where("id = ? AND user_id = ?", id, userID).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

// AdminListOrders returns every order with its owner, newest first
func (s *Service) AdminListOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	err := withItems(s.db.WithContext(ctx)).
		Preload("User").
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}
	return orders, nil
}

// AdminGetOrder returns any order with its owner
func (s *Service) AdminGetOrder(ctx context.Context, id uint) (*Order, error) {
	var o Order
	err := withItems(s.db.WithContext(ctx)).Preload("User").First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

// UpdateStatus sets the status of an order. Unknown statuses are rejected
// before storage is touched.
func (s *Service) UpdateStatus(ctx context.Context, id uint, raw string) (*Order, error) {
	status, err := ParseStatus(raw)
	if err != nil {
		return nil, err
	}

	res := s.db.WithContext(ctx).Model(&Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrOrderNotFound
	}

	s.logger.WithFields(logrus.Fields{"order_id": id, "status": status}).Info("order status updated")

	return s.AdminGetOrder(ctx, id)
}

// DeleteOrder removes an order and its items
func (s *Service) DeleteOrder(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o Order
		if err := tx.First(&o, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to get order: %w", err)
		}

		if err := tx.Select("Items").Delete(&o).Error; err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}

		s.logger.WithField("order_id", id).Info("order deleted")
		return nil
	})
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id") }).
		Preload("Items.Product")
}
