package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/your-org/mobilestore-api/internal/domain/order"
	"github.com/your-org/mobilestore-api/internal/domain/product"
	"github.com/your-org/mobilestore-api/internal/domain/user"
)

func adminProductRouter(svc *mockProductAdminService) *gin.Engine {
	h := NewAdminProductHandler(svc)
	h.now = func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }

	r := gin.New()
	r.GET("/admin/products", h.GetProducts)
	r.GET("/admin/products/export", h.ExportProducts)
	r.POST("/admin/products", h.CreateProduct)
	r.PUT("/admin/products/:id", h.UpdateProduct)
	r.DELETE("/admin/products/:id", h.DeleteProduct)
	return r
}

func TestAdminProductHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantErrors map[string]string
	}{
		{
			name:       "created",
			body:       `{"name":"Pixel 9","sku":"PX-9","price":"799.00","stock":5,"category_ids":[1]}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "numeric price",
			body:       `{"name":"Pixel 9","sku":"PX-9","price":0,"stock":5}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing price and negative stock",
			body:       `{"name":"Pixel 9","sku":"PX-9","stock":-1}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantErrors: map[string]string{
				"price": "The price field is required.",
				"stock": "The stock field must be greater than or equal to 0.",
			},
		},
		{
			name:       "rating above five",
			body:       `{"name":"Pixel 9","sku":"PX-9","price":"799","rating":"5.5"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantErrors: map[string]string{"rating": "The rating field must be less than or equal to 5."},
		},
		{
			name:       "image without url",
			body:       `{"name":"Pixel 9","sku":"PX-9","price":"799","images":[{"is_primary":true}]}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantErrors: map[string]string{"images[0].url": "The url field is required."},
		},
		{
			name:       "duplicate sku",
			body:       `{"name":"Pixel 9","sku":"PX-9","price":"799"}`,
			serviceErr: product.ErrSKUTaken,
			wantStatus: http.StatusUnprocessableEntity,
			wantErrors: map[string]string{"sku": "The sku has already been taken."},
		},
		{
			name:       "unknown brand",
			body:       `{"name":"Pixel 9","sku":"PX-9","price":"799","brand_ids":[42]}`,
			serviceErr: &product.UnknownReferenceError{Field: "brand_ids", IDs: []uint{42}},
			wantStatus: http.StatusUnprocessableEntity,
			wantErrors: map[string]string{"brand_ids": "The selected brand ids is invalid."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockProductAdminService{}
			if tt.wantErrors == nil || tt.serviceErr != nil {
				var res *product.Resource
				if tt.serviceErr == nil {
					res = &product.Resource{ID: 1, Name: "Pixel 9"}
				}
				svc.On("CreateProduct", mock.Anything, mock.AnythingOfType("*product.CreateProductRequest")).Return(res, tt.serviceErr)
			}

			w := doJSON(t, adminProductRouter(svc), http.MethodPost, "/admin/products", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			body := decode(t, w)
			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, "Product created successfully", body["message"])
			}
			for field, msg := range tt.wantErrors {
				assert.Equal(t, []interface{}{msg}, body["errors"].(map[string]interface{})[field], field)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestAdminProductHandler_UpdateAndDelete(t *testing.T) {
	svc := &mockProductAdminService{}
	svc.On("UpdateProduct", mock.Anything, uint(3), mock.MatchedBy(func(req *product.UpdateProductRequest) bool {
		return req.Price != nil && req.Price.Equal(decimal.RequireFromString("649")) &&
			req.Name == nil && req.BrandIDs != nil && len(req.BrandIDs) == 0
	})).Return(&product.Resource{ID: 3}, nil)
	svc.On("DeleteProduct", mock.Anything, uint(3)).Return(nil)
	svc.On("DeleteProduct", mock.Anything, uint(4)).Return(product.ErrProductNotFound)

	r := adminProductRouter(svc)

	w := doJSON(t, r, http.MethodPut, "/admin/products/3", `{"price":"649","brand_ids":[]}`)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Product updated successfully", decode(t, w)["message"])

	w = doJSON(t, r, http.MethodDelete, "/admin/products/3", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Product deleted successfully", decode(t, w)["message"])

	w = doJSON(t, r, http.MethodDelete, "/admin/products/4", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	svc.AssertExpectations(t)
}

func TestAdminProductHandler_Export(t *testing.T) {
	t.Run("workbook", func(t *testing.T) {
		svc := &mockProductAdminService{}
		svc.On("ExportProducts", mock.Anything, mock.Anything).Return([]byte("PK\x03\x04"), nil)

		w := doJSON(t, adminProductRouter(svc), http.MethodGet, "/admin/products/export", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
		assert.Equal(t, "attachment; filename=products-20260314.xlsx", w.Header().Get("Content-Disposition"))
		assert.Equal(t, "PK\x03\x04", w.Body.String())
	})

	t.Run("failure is json", func(t *testing.T) {
		svc := &mockProductAdminService{}
		svc.On("ExportProducts", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

		w := doJSON(t, adminProductRouter(svc), http.MethodGet, "/admin/products/export", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Empty(t, w.Header().Get("Content-Disposition"))
	})
}

func TestAdminOrderHandler(t *testing.T) {
	svc := &mockOrderAdminService{}
	svc.On("AdminListOrders", mock.Anything).Return([]order.Order{{ID: 2}, {ID: 1}}, nil)
	svc.On("AdminGetOrder", mock.Anything, uint(1)).Return(&order.Order{ID: 1}, nil)
	svc.On("UpdateStatus", mock.Anything, uint(1), "shipped").Return(&order.Order{ID: 1, Status: order.StatusShipped}, nil)
	svc.On("UpdateStatus", mock.Anything, uint(1), "refunded").Return(nil, order.ErrInvalidStatus)
	svc.On("UpdateStatus", mock.Anything, uint(8), "paid").Return(nil, order.ErrOrderNotFound)
	svc.On("DeleteOrder", mock.Anything, uint(1)).Return(nil)

	h := NewAdminOrderHandler(svc)
	r := gin.New()
	r.GET("/admin/orders", h.GetOrders)
	r.GET("/admin/orders/:id", h.GetOrder)
	r.PUT("/admin/orders/:id", h.UpdateOrder)
	r.DELETE("/admin/orders/:id", h.DeleteOrder)

	w := doJSON(t, r, http.MethodGet, "/admin/orders", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 2)

	w = doJSON(t, r, http.MethodGet, "/admin/orders/1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPut, "/admin/orders/1", `{"status":"shipped"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Order updated successfully", body["message"])
	assert.Equal(t, "shipped", body["data"].(map[string]interface{})["status"])

	w = doJSON(t, r, http.MethodPut, "/admin/orders/1", `{"status":"refunded"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []interface{}{"The selected status is invalid."}, decode(t, w)["errors"].(map[string]interface{})["status"])

	w = doJSON(t, r, http.MethodPut, "/admin/orders/1", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(t, r, http.MethodPut, "/admin/orders/8", `{"status":"paid"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/admin/orders/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Order deleted successfully", decode(t, w)["message"])

	svc.AssertExpectations(t)
}

func TestAdminUserHandler(t *testing.T) {
	svc := &mockUserAdminService{}
	svc.On("ListUsers", mock.Anything).Return([]user.User{{ID: 1}, {ID: 2}, {ID: 3}}, nil)
	svc.On("GetUser", mock.Anything, uint(4)).Return(nil, user.ErrUserNotFound)
	svc.On("UpdateUser", mock.Anything, uint(2), mock.MatchedBy(func(req *user.UpdateUserRequest) bool {
		return req.Role != nil && *req.Role == "admin" && req.Email == nil
	})).Return(&user.User{ID: 2, Role: user.RoleAdmin}, nil)
	svc.On("UpdateUser", mock.Anything, uint(3), mock.Anything).Return(nil, user.ErrEmailTaken)
	svc.On("DeleteUser", mock.Anything, uint(2)).Return(nil)

	h := NewAdminUserHandler(svc)
	r := gin.New()
	r.GET("/admin/users", h.GetUsers)
	r.GET("/admin/users/:id", h.GetUser)
	r.PUT("/admin/users/:id", h.UpdateUser)
	r.DELETE("/admin/users/:id", h.DeleteUser)

	w := doJSON(t, r, http.MethodGet, "/admin/users", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 3, decode(t, w)["count"])

	w = doJSON(t, r, http.MethodGet, "/admin/users/4", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decode(t, w)["message"])

	w = doJSON(t, r, http.MethodPut, "/admin/users/2", `{"role":"admin"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User updated successfully", decode(t, w)["message"])

	w = doJSON(t, r, http.MethodPut, "/admin/users/2", `{"role":"owner"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []interface{}{"The selected role is invalid."}, decode(t, w)["errors"].(map[string]interface{})["role"])

	w = doJSON(t, r, http.MethodPut, "/admin/users/3", `{"email":"taken@example.com"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []interface{}{"The email has already been taken."}, decode(t, w)["errors"].(map[string]interface{})["email"])

	w = doJSON(t, r, http.MethodDelete, "/admin/users/2", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User deleted successfully", decode(t, w)["message"])

	svc.AssertExpectations(t)
}
