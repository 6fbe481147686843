// internal/interfaces/http/handlers/admin_user.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/mobilestore-api/internal/domain/user"
)

const userNotFoundMessage = "User not found"

// AdminUserHandler handles account management
type AdminUserHandler struct {
	users UserAdminService
}

// NewAdminUserHandler creates a new admin user handler
func NewAdminUserHandler(users UserAdminService) *AdminUserHandler {
	return &AdminUserHandler{users: users}
}

// GetUsers handles GET /admin/users
func (h *AdminUserHandler) GetUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  users,
		"count": len(users),
	})
}

// GetUser handles GET /admin/users/:id
func (h *AdminUserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id", userNotFoundMessage)
	if !ok {
		return
	}

	u, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": u})
}

// UpdateUser handles PUT /admin/users/:id
func (h *AdminUserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id", userNotFoundMessage)
	if !ok {
		return
	}

	var req user.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.users.UpdateUser(c.Request.Context(), id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":    u,
		"message": "User updated successfully",
	})
}

// DeleteUser handles DELETE /admin/users/:id
func (h *AdminUserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id", userNotFoundMessage)
	if !ok {
		return
	}

	if err := h.users.DeleteUser(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func (h *AdminUserHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		notFound(c, userNotFoundMessage)
	case errors.Is(err, user.ErrEmailTaken):
		validationError(c, "email", emailTakenMessage)
	default:
		internalError(c, err)
	}
}
