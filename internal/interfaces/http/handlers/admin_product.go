// internal/interfaces/http/handlers/admin_product.go
package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/mobilestore-api/internal/domain/product"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminProductHandler handles product management
type AdminProductHandler struct {
	products ProductAdminService
	now      func() time.Time
}

// NewAdminProductHandler creates a new admin product handler
func NewAdminProductHandler(products ProductAdminService) *AdminProductHandler {
	return &AdminProductHandler{
		products: products,
		now:      time.Now,
	}
}

// GetProducts handles GET /admin/products
func (h *AdminProductHandler) GetProducts(c *gin.Context) {
	products, err := h.products.AdminListProducts(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": products})
}

// CreateProduct handles POST /admin/products
func (h *AdminProductHandler) CreateProduct(c *gin.Context) {
	var req product.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.products.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":    res,
		"message": "Product created successfully",
	})
}

// UpdateProduct handles PUT /admin/products/:id
func (h *AdminProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id", productNotFoundMessage)
	if !ok {
		return
	}

	var req product.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.products.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":    res,
		"message": "Product updated successfully",
	})
}

// DeleteProduct handles DELETE /admin/products/:id
func (h *AdminProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id", productNotFoundMessage)
	if !ok {
		return
	}

	if err := h.products.DeleteProduct(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// ExportProducts handles GET /admin/products/export
func (h *AdminProductHandler) ExportProducts(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.products.ExportProducts(c.Request.Context(), &buf); err != nil {
		internalError(c, err)
		return
	}

	filename := fmt.Sprintf("products-%s.xlsx", h.now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *AdminProductHandler) handleError(c *gin.Context, err error) {
	var unknown *product.UnknownReferenceError
	switch {
	case errors.Is(err, product.ErrProductNotFound):
		notFound(c, productNotFoundMessage)
	case errors.Is(err, product.ErrSKUTaken):
		validationError(c, "sku", "The sku has already been taken.")
	case errors.As(err, &unknown):
		validationError(c, unknown.Field, fmt.Sprintf("The selected %s is invalid.", label(unknown.Field)))
	default:
		internalError(c, err)
	}
}
