// internal/interfaces/http/handlers/invoice.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// InvoiceHandler renders order invoices
type InvoiceHandler struct {
	orders   OrderService
	users    AuthService
	invoices InvoiceRenderer
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(orders OrderService, users AuthService, invoices InvoiceRenderer) *InvoiceHandler {
	return &InvoiceHandler{
		orders:   orders,
		users:    users,
		invoices: invoices,
	}
}

// GenerateInvoice handles GET /orders/:id/invoice
func (h *InvoiceHandler) GenerateInvoice(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	id, ok := parseID(c, "id", orderNotFoundMessage)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	o, err := h.orders.GetUserOrder(ctx, userID, id)
	if err != nil {
		handleOrderError(c, err)
		return
	}

	customer, err := h.users.GetUser(ctx, userID)
	if err != nil {
		internalError(c, err)
		return
	}
	o.User = customer

	pdf, err := h.invoices.GenerateInvoice(o)
	if err != nil {
		internalError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=invoice-%d.pdf", o.ID))
	c.Data(http.StatusOK, "application/pdf", pdf.Bytes())
}
