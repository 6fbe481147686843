// internal/interfaces/http/handlers/product.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/mobilestore-api/internal/domain/product"
	"github.com/your-org/mobilestore-api/internal/pkg/pagination"
)

const productNotFoundMessage = "Product not found"

// ProductHandler handles the public catalog endpoints
type ProductHandler struct {
	products CatalogService
}

// NewProductHandler creates a new product handler
func NewProductHandler(products CatalogService) *ProductHandler {
	return &ProductHandler{products: products}
}

// GetProducts handles GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	_, featured := c.GetQuery("featured")
	_, active := c.GetQuery("active")

	h.list(c, product.ListFilter{
		Platform:     c.Query("platform"),
		FeaturedOnly: featured,
		ActiveOnly:   active,
	})
}

// GetFeatured handles GET /products/featured
func (h *ProductHandler) GetFeatured(c *gin.Context) {
	h.list(c, product.ListFilter{FeaturedOnly: true})
}

// GetIOS handles GET /products/ios
func (h *ProductHandler) GetIOS(c *gin.Context) {
	h.list(c, product.ListFilter{Platform: "ios"})
}

// GetAndroid handles GET /products/android
func (h *ProductHandler) GetAndroid(c *gin.Context) {
	h.list(c, product.ListFilter{Platform: "android"})
}

// Search handles GET /products/search
func (h *ProductHandler) Search(c *gin.Context) {
	page, err := h.products.SearchProducts(c.Request.Context(), c.Query("q"), pagination.ParsePage(c.Query("page")))
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id", productNotFoundMessage)
	if !ok {
		return
	}

	res, err := h.products.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			notFound(c, productNotFoundMessage)
			return
		}
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *ProductHandler) list(c *gin.Context, filter product.ListFilter) {
	page, err := h.products.ListProducts(c.Request.Context(), filter, pagination.ParsePage(c.Query("page")))
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
