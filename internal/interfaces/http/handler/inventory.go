package handler

import (
	"github.com/gin-gonic/gin"

	appinventory "github.com/marealta/backend/internal/application/inventory"
	"github.com/marealta/backend/internal/interfaces/http/middleware"
)

// InventoryHandler handles the parts catalog and stock movements
type InventoryHandler struct {
	BaseHandler
	service *appinventory.Service
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(service *appinventory.Service) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// RegisterRoutes registers inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	parts := rg.Group("/parts")
	parts.GET("", h.ListParts)
	parts.GET("/low-stock", h.ListLowStock)
	parts.GET("/:id", h.GetPart)
	parts.GET("/:id/movements", h.ListMovements)

	write := parts.Group("", middleware.RequireWriteRole())
	write.POST("", h.CreatePart)
	write.POST("/:id/movements", h.ApplyMovement)

	sales := rg.Group("/sales", middleware.RequireWriteRole())
	sales.POST("", h.QuickSale)
}

// ListParts lists the parts catalog
func (h *InventoryHandler) ListParts(c *gin.Context) {
	req, ok := bindListRequest(c)
	if !ok {
		return
	}

	filter := req.ToFilter()
	parts, total, err := h.service.ListParts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, parts, total, filter.Page, filter.PageSize)
}

// ListLowStock lists parts under their reorder point
func (h *InventoryHandler) ListLowStock(c *gin.Context) {
	parts, err := h.service.ListLowStock(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, parts)
}

// GetPart returns a part by ID
func (h *InventoryHandler) GetPart(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	part, err := h.service.GetPart(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, part)
}

// CreatePart adds a part to the catalog
func (h *InventoryHandler) CreatePart(c *gin.Context) {
	var req appinventory.CreatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid part payload")
		return
	}

	part, err := h.service.CreatePart(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, part)
}

// ApplyMovement records a manual stock movement for a part
func (h *InventoryHandler) ApplyMovement(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req appinventory.MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid movement payload")
		return
	}
	req.PartID = id

	movement, err := h.service.ApplyMovement(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, movement)
}

// ListMovements lists a part's movement ledger
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	req, ok := bindListRequest(c)
	if !ok {
		return
	}
	filter := req.ToFilter()

	movements, total, err := h.service.ListMovements(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}

// QuickSale sells parts over the counter
func (h *InventoryHandler) QuickSale(c *gin.Context) {
	var req appinventory.QuickSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid sale payload")
		return
	}

	result, err := h.service.QuickSale(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}
