// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/mobilestore-api/internal/domain/cart"
	"github.com/your-org/mobilestore-api/internal/domain/order"
	"github.com/your-org/mobilestore-api/internal/domain/product"
	"github.com/your-org/mobilestore-api/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	seedAdminEmail    = "admin@example.com"
	seedAdminPassword = "admin123"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, logger *logrus.Logger) *Migration {
	return &Migration{
		db:     db,
		logger: logger,
	}
}

// Models lists every persisted model in dependency order
func Models() []interface{} {
	return []interface{}{
		&user.User{},

		&product.Category{},
		&product.Brand{},
		&product.Product{},
		&product.ProductImage{},
		&product.Review{},

		&cart.Cart{},
		&cart.CartItem{},

		&order.Order{},
		&order.OrderItem{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.logger.Info("running database auto-migrations")

	for _, model := range Models() {
		m.logger.Debugf("migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("database auto-migrations completed")
	return nil
}

// CreateIndexes creates additional indexes for listing queries
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at DESC)",

		"CREATE INDEX IF NOT EXISTS idx_products_featured_active ON products(is_featured, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_platform_active ON products(platform, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",

		"CREATE INDEX IF NOT EXISTS idx_product_images_sort_order ON product_images(product_id, sort_order)",
		"CREATE INDEX IF NOT EXISTS idx_reviews_product_created ON reviews(product_id, created_at DESC)",

		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
	}

	failed := 0
	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.logger.WithError(err).Warn("failed to create index")
			failed++
		}
	}

	m.logger.WithFields(logrus.Fields{
		"created": len(indexes) - failed,
		"failed":  failed,
	}).Info("additional indexes created")
	return nil
}

// SeedInitialData inserts an admin account and a small sample catalog.
// Existing rows are left untouched.
func (m *Migration) SeedInitialData() error {
	m.logger.Info("seeding initial data")

	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	categories, err := m.seedCategories()
	if err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	brands, err := m.seedBrands()
	if err != nil {
		return fmt.Errorf("failed to seed brands: %w", err)
	}

	if err := m.seedProducts(categories, brands); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	m.logger.Info("initial data seeded")
	return nil
}

func (m *Migration) seedAdminUser() error {
	var existing user.User
	err := m.db.Where("email = ?", seedAdminEmail).First(&existing).Error
	if err == nil {
		m.logger.WithField("user_id", existing.ID).Debug("admin user already exists")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(seedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := user.User{
		Name:     "Admin",
		Email:    seedAdminEmail,
		Password: string(hashed),
		Role:     user.RoleAdmin,
	}
	if err := m.db.Create(&admin).Error; err != nil {
		return err
	}

	m.logger.WithField("email", seedAdminEmail).Warn("created default admin user, change its password")
	return nil
}

func (m *Migration) seedCategories() (map[string]product.Category, error) {
	seeds := []product.Category{
		{Name: "Smartphones", Description: "iOS and Android phones"},
		{Name: "Tablets", Description: "Tablets and e-readers"},
		{Name: "Accessories", Description: "Cases, chargers and headphones"},
	}

	out := make(map[string]product.Category, len(seeds))
	for _, seed := range seeds {
		c := seed
		if err := m.db.Where(product.Category{Name: seed.Name}).FirstOrCreate(&c).Error; err != nil {
			return nil, err
		}
		out[c.Name] = c
	}
	return out, nil
}

func (m *Migration) seedBrands() (map[string]product.Brand, error) {
	seeds := []product.Brand{
		{Name: "Apple", Logo: "https://example.com/logos/apple.png"},
		{Name: "Samsung", Logo: "https://example.com/logos/samsung.png"},
		{Name: "Google", Logo: "https://example.com/logos/google.png"},
	}

	out := make(map[string]product.Brand, len(seeds))
	for _, seed := range seeds {
		b := seed
		if err := m.db.Where(product.Brand{Name: seed.Name}).FirstOrCreate(&b).Error; err != nil {
			return nil, err
		}
		out[b.Name] = b
	}
	return out, nil
}

func (m *Migration) seedProducts(categories map[string]product.Category, brands map[string]product.Brand) error {
	type seed struct {
		product  product.Product
		category string
		brand    string
	}

	seeds := []seed{
		{
			product: product.Product{
				Name:        "iPhone 15",
				SKU:         "APL-IP15-128",
				Price:       decimal.RequireFromString("799.00"),
				Platform:    product.PlatformIOS,
				Stock:       25,
				IsFeatured:  true,
				IsActive:    true,
				Rating:      decimal.RequireFromString("4.60"),
				Description: "6.1-inch display, 128 GB",
			},
			category: "Smartphones",
			brand:    "Apple",
		},
		{
			product: product.Product{
				Name:          "Galaxy S24",
				SKU:           "SMS-S24-256",
				Price:         decimal.RequireFromString("899.00"),
				DiscountPrice: decimal.NewNullDecimal(decimal.RequireFromString("849.00")),
				Platform:      product.PlatformAndroid,
				Stock:         30,
				IsFeatured:    true,
				IsActive:      true,
				Rating:        decimal.RequireFromString("4.50"),
				Description:   "6.2-inch display, 256 GB",
			},
			category: "Smartphones",
			brand:    "Samsung",
		},
		{
			product: product.Product{
				Name:        "Pixel 8",
				SKU:         "GGL-PX8-128",
				Price:       decimal.RequireFromString("699.00"),
				Platform:    product.PlatformAndroid,
				Stock:       15,
				IsActive:    true,
				Rating:      decimal.RequireFromString("4.40"),
				Description: "6.2-inch display, 128 GB",
			},
			category: "Smartphones",
			brand:    "Google",
		},
		{
			product: product.Product{
				Name:        "iPad Air",
				SKU:         "APL-IPAD-AIR",
				Price:       decimal.RequireFromString("599.00"),
				Platform:    product.PlatformIOS,
				Stock:       10,
				IsActive:    true,
				Rating:      decimal.RequireFromString("4.70"),
				Description: "10.9-inch display, 64 GB",
			},
			category: "Tablets",
			brand:    "Apple",
		},
	}

	for _, s := range seeds {
		var existing product.Product
		err := m.db.Where("sku = ?", s.product.SKU).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		p := s.product
		p.Categories = []product.Category{categories[s.category]}
		p.Brands = []product.Brand{brands[s.brand]}
		if err := m.db.Omit("Categories.*", "Brands.*").Create(&p).Error; err != nil {
			return err
		}
		m.logger.WithField("sku", p.SKU).Debug("seeded product")
	}
	return nil
}

// DropAllTables drops every application table. cmd/api calls it when
// DB_RESET_ON_START is set in development.
func (m *Migration) DropAllTables() error {
	m.logger.Warn("dropping all database tables")

	tables := []string{
		"order_items",
		"orders",
		"cart_items",
		"carts",
		"reviews",
		"product_images",
		"brand_product",
		"category_product",
		"products",
		"brands",
		"categories",
		"users",
	}

	for _, table := range tables {
		if err := m.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
