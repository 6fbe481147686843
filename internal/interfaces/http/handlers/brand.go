// internal/interfaces/http/handlers/brand.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/mobilestore-api/internal/domain/product"
)

const brandNotFoundMessage = "Brand not found"

// BrandHandler serves brands publicly and to admins
type BrandHandler struct {
	brands BrandService
}

// NewBrandHandler creates a new brand handler
func NewBrandHandler(brands BrandService) *BrandHandler {
	return &BrandHandler{brands: brands}
}

// GetBrands handles GET /brands and GET /admin/brands
func (h *BrandHandler) GetBrands(c *gin.Context) {
	brands, err := h.brands.ListBrands(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": brands})
}

// GetBrand handles GET /brands/:id
func (h *BrandHandler) GetBrand(c *gin.Context) {
	id, ok := parseID(c, "id", brandNotFoundMessage)
	if !ok {
		return
	}

	brand, err := h.brands.GetBrand(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": brand})
}

// CreateBrand handles POST /admin/brands
func (h *BrandHandler) CreateBrand(c *gin.Context) {
	var req product.BrandRequest
	if !bindJSON(c, &req) {
		return
	}

	brand, err := h.brands.CreateBrand(c.Request.Context(), &req)
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":    brand,
		"message": "Brand created successfully",
	})
}

// UpdateBrand handles PUT /admin/brands/:id
func (h *BrandHandler) UpdateBrand(c *gin.Context) {
	id, ok := parseID(c, "id", brandNotFoundMessage)
	if !ok {
		return
	}

	var req product.BrandRequest
	if !bindJSON(c, &req) {
		return
	}

	brand, err := h.brands.UpdateBrand(c.Request.Context(), id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":    brand,
		"message": "Brand updated successfully",
	})
}

// DeleteBrand handles DELETE /admin/brands/:id
func (h *BrandHandler) DeleteBrand(c *gin.Context) {
	id, ok := parseID(c, "id", brandNotFoundMessage)
	if !ok {
		return
	}

	if err := h.brands.DeleteBrand(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Brand deleted successfully"})
}

func (h *BrandHandler) handleError(c *gin.Context, err error) {
	if errors.Is(err, product.ErrBrandNotFound) {
		notFound(c, brandNotFoundMessage)
		return
	}
	internalError(c, err)
}
