// internal/domain/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/mobilestore-api/internal/infrastructure/database/pgerrors"
	"gorm.io/gorm"
)

// TokenIssuer issues access tokens for authenticated users
type TokenIssuer interface {
	GenerateAccessToken(userID uint, email string, isAdmin bool) (string, error)
}

// PasswordHasher hashes and verifies passwords
type PasswordHasher interface {
	HashPassword(password string) (string, error)
	VerifyPassword(password, hash string) error
}

// TokenRevoker invalidates a token before its natural expiry
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
}

// Service handles registration, login and the current-user lookups
type Service struct {
	db        *gorm.DB
	tokens    TokenIssuer
	passwords PasswordHasher
	revoker   TokenRevoker
	logger    *logrus.Logger
}

// NewService creates a new user service
func NewService(db *gorm.DB, tokens TokenIssuer, passwords PasswordHasher, revoker TokenRevoker, logger *logrus.Logger) *Service {
	return &Service{
		db:        db,
		tokens:    tokens,
		passwords: passwords,
		revoker:   revoker,
		logger:    logger,
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Name                 string `json:"name" binding:"required,max=255"`
	Email                string `json:"email" binding:"required,email,max=255"`
	Password             string `json:"password" binding:"required,min=8,max=72"`
	PasswordConfirmation string `json:"password_confirmation" binding:"omitempty,eqfield=Password"`
	Phone                string `json:"phone" binding:"max=50"`
	Address              string `json:"address"`
}

// LoginRequest represents user login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Register creates a customer account and signs it in
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	hashedPassword, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := User{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: hashedPassword,
		Phone:    req.Phone,
		Address:  req.Address,
		Role:     RoleUser,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if pgerrors.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": user.ID}).Info("user registered")

	return s.issue(&user)
}

// Login verifies credentials and issues a token
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	var user User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.passwords.VerifyPassword(req.Password, user.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(&user)
}

// Logout revokes the token identified by jti
func (s *Service) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if err := s.revoker.Revoke(ctx, jti, expiresAt); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// GetUser returns the account with id
func (s *Service) GetUser(ctx context.Context, id uint) (*User, error) {
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

func (s *Service) issue(user *User) (*AuthResponse, error) {
	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.IsAdmin())
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	return &AuthResponse{User: user, Token: token}, nil
}
