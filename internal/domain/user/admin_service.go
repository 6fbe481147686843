// internal/domain/user/admin_service.go
package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/mobilestore-api/internal/infrastructure/database/pgerrors"
	"gorm.io/gorm"
)

// AdminService handles admin user management operations
type AdminService struct {
	db        *gorm.DB
	passwords PasswordHasher
	logger    *logrus.Logger
}

// NewAdminService creates a new admin user service
func NewAdminService(db *gorm.DB, passwords PasswordHasher, logger *logrus.Logger) *AdminService {
	return &AdminService{
		db:        db,
		passwords: passwords,
		logger:    logger,
	}
}

// UpdateUserRequest is a partial update; nil fields are left untouched
type UpdateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=255"`
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
	Phone    *string `json:"phone" binding:"omitempty,max=50"`
	Address  *string `json:"address"`
	Role     *string `json:"role" binding:"omitempty,oneof=user admin"`
	Password *string `json:"password" binding:"omitempty,min=8,max=72"`
}

// ListUsers returns every account ordered by id
func (s *AdminService) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser returns one account
func (s *AdminService) GetUser(ctx context.Context, id uint) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// UpdateUser applies the supplied fields. A new password is hashed before storage.
func (s *AdminService) UpdateUser(ctx context.Context, id uint, req *UpdateUserRequest) (*User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.Role != nil {
		user.Role = Role(*req.Role)
	}
	if req.Password != nil {
		hashed, err := s.passwords.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = hashed
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		if pgerrors.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user updated by admin")
	return user, nil
}

// DeleteUser soft-deletes the account. Its orders are kept.
func (s *AdminService) DeleteUser(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&User{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
