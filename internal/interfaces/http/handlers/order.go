// internal/interfaces/http/handlers/order.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/mobilestore-api/internal/domain/order"
	"github.com/your-org/mobilestore-api/internal/pkg/pagination"
)

const orderNotFoundMessage = "Order not found"

// OrderHandler handles the caller's orders
type OrderHandler struct {
	orders OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// PlaceOrder handles POST /orders. The caller's cart becomes an order.
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	o, err := h.orders.PlaceOrder(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrEmptyCart):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Cart is empty"})
		case errors.Is(err, order.ErrOrderCreationFailed):
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "Order creation failed",
				"error":   err.Error(),
			})
		default:
			internalError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, o)
}

// GetOrders handles GET /orders
func (h *OrderHandler) GetOrders(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	page, err := h.orders.ListUserOrders(c.Request.Context(), userID, pagination.ParsePage(c.Query("page")))
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	id, ok := parseID(c, "id", orderNotFoundMessage)
	if !ok {
		return
	}

	o, err := h.orders.GetUserOrder(c.Request.Context(), userID, id)
	if err != nil {
		handleOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func handleOrderError(c *gin.Context, err error) {
	if errors.Is(err, order.ErrOrderNotFound) {
		notFound(c, orderNotFoundMessage)
		return
	}
	internalError(c, err)
}
