package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/stagegear/inventory/internal/middleware"
	"github.com/stagegear/inventory/internal/services"
	"github.com/stagegear/inventory/pkg/response"
)

// UserHandler serves the admin account endpoints.
type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List GET /api/admin/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context(), middleware.GetIdentity(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, users)
}

// Create POST /api/admin/users
func (h *UserHandler) Create(c *gin.Context) {
	var req services.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.Create(c.Request.Context(), middleware.GetIdentity(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

// Delete DELETE /api/admin/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), middleware.GetIdentity(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}
