// internal/interfaces/http/handlers/services.go
package handlers

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/your-org/mobilestore-api/internal/domain/cart"
	"github.com/your-org/mobilestore-api/internal/domain/order"
	"github.com/your-org/mobilestore-api/internal/domain/product"
	"github.com/your-org/mobilestore-api/internal/domain/user"
	"github.com/your-org/mobilestore-api/internal/pkg/pagination"
)

// The interfaces below are the slices of the domain services each handler
// uses. The concrete services live in internal/domain.

type AuthService interface {
	Register(ctx context.Context, req *user.RegisterRequest) (*user.AuthResponse, error)
	Login(ctx context.Context, req *user.LoginRequest) (*user.AuthResponse, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	GetUser(ctx context.Context, id uint) (*user.User, error)
}

type CatalogService interface {
	ListProducts(ctx context.Context, filter product.ListFilter, page int) (*pagination.Page[product.Resource], error)
	SearchProducts(ctx context.Context, q string, page int) (*pagination.Page[product.Resource], error)
	GetProduct(ctx context.Context, id uint) (*product.Resource, error)
}

type ProductAdminService interface {
	AdminListProducts(ctx context.Context) ([]product.Resource, error)
	CreateProduct(ctx context.Context, req *product.CreateProductRequest) (*product.Resource, error)
	UpdateProduct(ctx context.Context, id uint, req *product.UpdateProductRequest) (*product.Resource, error)
	DeleteProduct(ctx context.Context, id uint) error
	ExportProducts(ctx context.Context, w io.Writer) error
}

type CategoryService interface {
	ListCategories(ctx context.Context) ([]product.Category, error)
	GetCategory(ctx context.Context, id uint) (*product.Category, error)
	CreateCategory(ctx context.Context, req *product.CategoryRequest) (*product.Category, error)
	UpdateCategory(ctx context.Context, id uint, req *product.CategoryRequest) (*product.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
}

type BrandService interface {
	ListBrands(ctx context.Context) ([]product.Brand, error)
	GetBrand(ctx context.Context, id uint) (*product.Brand, error)
	CreateBrand(ctx context.Context, req *product.BrandRequest) (*product.Brand, error)
	UpdateBrand(ctx context.Context, id uint, req *product.BrandRequest) (*product.Brand, error)
	DeleteBrand(ctx context.Context, id uint) error
}

type ReviewService interface {
	ListReviews(ctx context.Context, productID uint) ([]product.Review, error)
	CreateReview(ctx context.Context, productID uint, req *product.CreateReviewRequest) (*product.Review, error)
}

type CartService interface {
	GetCart(ctx context.Context, userID uint) (*cart.Cart, error)
	AddItem(ctx context.Context, userID uint, req *cart.AddItemRequest) (*cart.Cart, error)
	UpdateItem(ctx context.Context, userID uint, req *cart.UpdateItemRequest) (*cart.Cart, error)
	RemoveItem(ctx context.Context, userID, itemID uint) (*cart.Cart, error)
	Clear(ctx context.Context, userID uint) error
}

type OrderService interface {
	PlaceOrder(ctx context.Context, userID uint) (*order.Order, error)
	ListUserOrders(ctx context.Context, userID uint, page int) (*pagination.Page[order.Order], error)
	GetUserOrder(ctx context.Context, userID, id uint) (*order.Order, error)
}

type OrderAdminService interface {
	AdminListOrders(ctx context.Context) ([]order.Order, error)
	AdminGetOrder(ctx context.Context, id uint) (*order.Order, error)
	UpdateStatus(ctx context.Context, id uint, raw string) (*order.Order, error)
	DeleteOrder(ctx context.Context, id uint) error
}

type UserAdminService interface {
	ListUsers(ctx context.Context) ([]user.User, error)
	GetUser(ctx context.Context, id uint) (*user.User, error)
	UpdateUser(ctx context.Context, id uint, req *user.UpdateUserRequest) (*user.User, error)
	DeleteUser(ctx context.Context, id uint) error
}

// InvoiceRenderer turns an order into a PDF document
type InvoiceRenderer interface {
	GenerateInvoice(o *order.Order) (*bytes.Buffer, error)
}
