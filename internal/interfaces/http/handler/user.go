package handler

import (
	"github.com/gin-gonic/gin"

	appidentity "github.com/marealta/backend/internal/application/identity"
	"github.com/marealta/backend/internal/interfaces/http/middleware"
)

// UserHandler handles user administration inside a tenant
type UserHandler struct {
	BaseHandler
	service *appidentity.Service
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service *appidentity.Service) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRoutes registers user routes. All of them are admin-only.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users", middleware.RequireAdmin())
	users.GET("", h.List)
	users.POST("", h.Create)
	users.POST("/:id/deactivate", h.Deactivate)
}

// List lists the tenant's users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{
			"id":     u.ID,
			"email":  u.Email,
			"name":   u.Name,
			"role":   u.Role,
			"active": u.Active,
		})
	}
	h.Success(c, out)
}

// Create adds a user to the tenant
func (h *UserHandler) Create(c *gin.Context) {
	var req appidentity.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid user payload")
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, gin.H{"id": user.ID, "email": user.Email, "name": user.Name, "role": user.Role})
}

// Deactivate blocks a user from signing in
func (h *UserHandler) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	user, err := h.service.DeactivateUser(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"id": user.ID, "active": user.Active})
}
