// internal/interfaces/http/handlers/admin_order.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/mobilestore-api/internal/domain/order"
)

// AdminOrderHandler handles order management
type AdminOrderHandler struct {
	orders OrderAdminService
}

// NewAdminOrderHandler creates a new admin order handler
func NewAdminOrderHandler(orders OrderAdminService) *AdminOrderHandler {
	return &AdminOrderHandler{orders: orders}
}

// GetOrders handles GET /admin/orders
func (h *AdminOrderHandler) GetOrders(c *gin.Context) {
	orders, err := h.orders.AdminListOrders(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": orders})
}

// GetOrder handles GET /admin/orders/:id
func (h *AdminOrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseID(c, "id", orderNotFoundMessage)
	if !ok {
		return
	}

	o, err := h.orders.AdminGetOrder(c.Request.Context(), id)
	if err != nil {
		handleOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": o})
}

// UpdateOrder handles PUT /admin/orders/:id
func (h *AdminOrderHandler) UpdateOrder(c *gin.Context) {
	id, ok := parseID(c, "id", orderNotFoundMessage)
	if !ok {
		return
	}

	var req order.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	o, err := h.orders.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, order.ErrInvalidStatus) {
			validationError(c, "status", "The selected status is invalid.")
			return
		}
		handleOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":    o,
		"message": "Order updated successfully",
	})
}

// DeleteOrder handles DELETE /admin/orders/:id
func (h *AdminOrderHandler) DeleteOrder(c *gin.Context) {
	id, ok := parseID(c, "id", orderNotFoundMessage)
	if !ok {
		return
	}

	if err := h.orders.DeleteOrder(c.Request.Context(), id); err != nil {
		handleOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}
