// internal/interfaces/http/handlers/category.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/mobilestore-api/internal/domain/product"
)

const categoryNotFoundMessage = "Category not found"

// CategoryHandler serves categories publicly and to admins
type CategoryHandler struct {
	categories CategoryService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categories CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// GetCategories handles GET /categories and GET /admin/categories
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.categories.ListCategories(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

// GetCategory handles GET /categories/:id
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := parseID(c, "id", categoryNotFoundMessage)
	if !ok {
		return
	}

	category, err := h.categories.GetCategory(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": category})
}

// CreateCategory handles POST /admin/categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req product.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categories.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":    category,
		"message": "Category created successfully",
	})
}

// UpdateCategory handles PUT /admin/categories/:id
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c, "id", categoryNotFoundMessage)
	if !ok {
		return
	}

	var req product.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categories.UpdateCategory(c.Request.Context(), id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":    category,
		"message": "Category updated successfully",
	})
}

// DeleteCategory handles DELETE /admin/categories/:id
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, "id", categoryNotFoundMessage)
	if !ok {
		return
	}

	if err := h.categories.DeleteCategory(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

func (h *CategoryHandler) handleError(c *gin.Context, err error) {
	if errors.Is(err, product.ErrCategoryNotFound) {
		notFound(c, categoryNotFoundMessage)
		return
	}
	internalError(c, err)
}
