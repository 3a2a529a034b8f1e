package handler

import (
	"github.com/gin-gonic/gin"

	appidentity "github.com/marealta/backend/internal/application/identity"
	"github.com/marealta/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles signup, login and logout
type AuthHandler struct {
	BaseHandler
	service *appidentity.Service
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service *appidentity.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// RegisterRoutes registers public auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	auth.POST("/signup", h.Signup)
	auth.POST("/login", h.Login)
}

// RegisterProtectedRoutes registers auth routes that require a token
func (h *AuthHandler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	auth.POST("/logout", h.Logout)
	auth.POST("/refresh", h.Refresh)
	auth.GET("/me", h.Me)
}

// Signup creates a workshop tenant with its first admin user
func (h *AuthHandler) Signup(c *gin.Context) {
	var req appidentity.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	tenant, admin, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, gin.H{
		"tenant": gin.H{"id": tenant.ID, "name": tenant.Name, "slug": tenant.Slug},
		"admin":  gin.H{"id": admin.ID, "email": admin.Email, "name": admin.Name},
	})
}

// Login verifies credentials and returns an access token
func (h *AuthHandler) Login(c *gin.Context) {
	var req appidentity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
		"user": gin.H{
			"id":    result.User.ID,
			"email": result.User.Email,
			"name":  result.User.Name,
			"role":  result.User.Role,
		},
	})
}

// Logout revokes the current access token
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		h.BadRequest(c, "No active session")
		return
	}

	if err := h.service.Logout(c.Request.Context(), claims); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Refresh issues a new access token and revokes the current one
func (h *AuthHandler) Refresh(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		h.BadRequest(c, "No active session")
		return
	}

	result, err := h.service.Refresh(c.Request.Context(), claims)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
	})
}

// Me returns the authenticated user
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		h.BadRequest(c, "No active session")
		return
	}

	user, err := h.service.CurrentUser(c.Request.Context(), claims)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}
