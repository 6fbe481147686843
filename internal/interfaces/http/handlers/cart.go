// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/mobilestore-api/internal/domain/cart"
)

const cartItemNotFoundMessage = "Cart item not found"

// CartHandler handles the caller's shopping cart
type CartHandler struct {
	carts CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	crt, err := h.carts.GetCart(c.Request.Context(), userID)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, crt)
}

// AddItem handles POST /cart/add
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req cart.AddItemRequest
	if !bindJSON(c, &req) {
		return
	}

	crt, err := h.carts.AddItem(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, crt)
}

// UpdateItem handles PUT /cart/update
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req cart.UpdateItemRequest
	if !bindJSON(c, &req) {
		return
	}

	crt, err := h.carts.UpdateItem(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, crt)
}

// RemoveItem handles DELETE /cart/remove/:itemId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	itemID, ok := parseID(c, "itemId", cartItemNotFoundMessage)
	if !ok {
		return
	}

	crt, err := h.carts.RemoveItem(c.Request.Context(), userID, itemID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, crt)
}

// ClearCart handles POST /cart/clear
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.carts.Clear(c.Request.Context(), userID); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

func (h *CartHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cart.ErrUnknownProduct):
		validationError(c, "product_id", "The selected product id is invalid.")
	case errors.Is(err, cart.ErrQuantityLimit):
		validationError(c, "quantity", fmt.Sprintf("The cart line quantity must not be greater than %d.", cart.MaxQuantity))
	case errors.Is(err, cart.ErrCartItemNotFound):
		notFound(c, cartItemNotFoundMessage)
	default:
		internalError(c, err)
	}
}
