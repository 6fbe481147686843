package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/mobilestore-api/internal/config"
	"github.com/your-org/mobilestore-api/internal/domain/product"
	"github.com/your-org/mobilestore-api/internal/interfaces/http/handlers"
	"github.com/your-org/mobilestore-api/internal/interfaces/http/middleware"
	"github.com/your-org/mobilestore-api/internal/pkg/auth"
	"github.com/your-org/mobilestore-api/internal/pkg/pagination"
)

type emptyCatalog struct{}

func (emptyCatalog) ListProducts(context.Context, product.ListFilter, int) (*pagination.Page[product.Resource], error) {
	return pagination.New[product.Resource](nil, 1, product.PerPage, 0), nil
}

func (emptyCatalog) SearchProducts(context.Context, string, int) (*pagination.Page[product.Resource], error) {
	return pagination.New[product.Resource](nil, 1, product.PerPage, 0), nil
}

func (emptyCatalog) GetProduct(context.Context, uint) (*product.Resource, error) {
	return nil, product.ErrProductNotFound
}

type noRevocations struct{}

func (noRevocations) IsRevoked(context.Context, string) (bool, error) { return false, nil }

func TestSetupRoutes_Guards(t *testing.T) {
	gin.SetMode(gin.TestMode)

	jwtManager := auth.NewJWTManager(&config.Config{
		App: config.AppConfig{Name: "Mobile Store API"},
		JWT: config.JWTConfig{Secret: strings.Repeat("s", 32), AccessTokenExpiry: time.Hour},
	})
	customerToken, err := jwtManager.GenerateAccessToken(3, "sam@example.com", false)
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	// Only the catalog handler is backed; guarded routes never reach theirs.
	h := &Handlers{
		Auth:         handlers.NewAuthHandler(nil),
		Product:      handlers.NewProductHandler(emptyCatalog{}),
		Category:     handlers.NewCategoryHandler(nil),
		Brand:        handlers.NewBrandHandler(nil),
		Review:       handlers.NewReviewHandler(nil),
		Cart:         handlers.NewCartHandler(nil),
		Order:        handlers.NewOrderHandler(nil),
		Invoice:      handlers.NewInvoiceHandler(nil, nil, nil),
		AdminProduct: handlers.NewAdminProductHandler(nil),
		AdminOrder:   handlers.NewAdminOrderHandler(nil),
		AdminUser:    handlers.NewAdminUserHandler(nil),
	}

	r := gin.New()
	SetupRoutes(r.Group("/api"), h, middleware.AuthMiddleware(jwtManager, noRevocations{}, logger))

	tests := []struct {
		method string
		path   string
		token  string
		want   int
	}{
		{http.MethodGet, "/api/products", "", http.StatusOK},
		{http.MethodGet, "/api/products/featured", "", http.StatusOK},
		{http.MethodGet, "/api/products/12", "", http.StatusNotFound},
		{http.MethodGet, "/api/auth/me", "", http.StatusUnauthorized},
		{http.MethodPost, "/api/auth/logout", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/cart", "", http.StatusUnauthorized},
		{http.MethodPost, "/api/orders", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/orders/1/invoice", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/admin/products", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/admin/products", customerToken, http.StatusForbidden},
		{http.MethodGet, "/api/admin/products/export", customerToken, http.StatusForbidden},
		{http.MethodPut, "/api/admin/orders/1", customerToken, http.StatusForbidden},
		{http.MethodDelete, "/api/admin/users/1", customerToken, http.StatusForbidden},
		{http.MethodPost, "/api/admin/categories", customerToken, http.StatusForbidden},
		{http.MethodPost, "/api/admin/brands", customerToken, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}
