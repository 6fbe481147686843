// internal/interfaces/http/handlers/review.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/mobilestore-api/internal/domain/product"
)

// ReviewHandler handles product review endpoints
type ReviewHandler struct {
	reviews ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// GetReviews handles GET /products/:id/reviews
func (h *ReviewHandler) GetReviews(c *gin.Context) {
	productID, ok := parseID(c, "id", productNotFoundMessage)
	if !ok {
		return
	}

	reviews, err := h.reviews.ListReviews(c.Request.Context(), productID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reviews})
}

// CreateReview handles POST /products/:id/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	productID, ok := parseID(c, "id", productNotFoundMessage)
	if !ok {
		return
	}

	var req product.CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviews.CreateReview(c.Request.Context(), productID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": review})
}

func (h *ReviewHandler) handleError(c *gin.Context, err error) {
	if errors.Is(err, product.ErrProductNotFound) {
		notFound(c, productNotFoundMessage)
		return
	}
	internalError(c, err)
}
