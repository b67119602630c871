package api

import (
	"net/http"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type UpdateRoleRequest struct {
	Role domain.Role `json:"role" binding:"required,oneof=user coach owner admin"`
}

// GetMe returns the caller's profile.
func (h *UserHandler) GetMe(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	user, err := h.userService.Profile(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	users, err := h.userService.List(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUsersToResponse(users))
}

func (h *UserHandler) UpdateRole(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	user, err := h.userService.UpdateRole(c.Request.Context(), id, c.Param("userId"), req.Role)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	if err := h.userService.Delete(c.Request.Context(), id, c.Param("userId")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
