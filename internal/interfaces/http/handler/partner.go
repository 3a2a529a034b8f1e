package handler

import (
	"github.com/gin-gonic/gin"

	apppartner "github.com/marealta/backend/internal/application/partner"
	"github.com/marealta/backend/internal/interfaces/http/middleware"
)

// PartnerHandler handles external service partner endpoints
type PartnerHandler struct {
	BaseHandler
	service *apppartner.Service
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(service *apppartner.Service) *PartnerHandler {
	return &PartnerHandler{service: service}
}

// RegisterRoutes registers partner routes
func (h *PartnerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	partners := rg.Group("/partners")
	partners.GET("", h.List)
	partners.GET("/:id", h.Get)

	write := partners.Group("", middleware.RequireWriteRole())
	write.POST("", h.Create)
	write.POST("/:id/rate", h.Rate)
	write.POST("/:id/deactivate", h.Deactivate)
	write.POST("/:id/activate", h.Activate)
}

// List lists partners
func (h *PartnerHandler) List(c *gin.Context) {
	req, ok := bindListRequest(c)
	if !ok {
		return
	}
	filter := req.ToFilter()

	partners, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, partners, total, filter.Page, filter.PageSize)
}

// Get returns a partner by ID
func (h *PartnerHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Create registers a new partner
func (h *PartnerHandler) Create(c *gin.Context) {
	var req apppartner.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid partner payload")
		return
	}

	p, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, p)
}

// Rate records a job rating for a partner
func (h *PartnerHandler) Rate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req struct {
		Score float64 `json:"score" binding:"required,min=0,max=5"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid rating payload")
		return
	}

	p, err := h.service.Rate(c.Request.Context(), id, req.Score)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Deactivate hides a partner from dispatch
func (h *PartnerHandler) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	p, err := h.service.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Activate makes a partner available again
func (h *PartnerHandler) Activate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	p, err := h.service.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}
