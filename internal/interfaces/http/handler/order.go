package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appworkshop "github.com/marealta/backend/internal/application/workshop"
	"github.com/marealta/backend/internal/domain/workshop"
	"github.com/marealta/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles the service order workflow endpoints
type OrderHandler struct {
	BaseHandler
	service *appworkshop.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(service *appworkshop.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes registers service order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.GET("", h.List)
	orders.GET("/:id", h.Get)

	write := orders.Group("", middleware.RequireWriteRole())
	write.POST("", h.Create)
	write.POST("/:id/items", h.AddItem)
	write.DELETE("/:id/items/:itemID", h.RemoveItem)
	write.POST("/:id/notes", h.AddNote)
	write.POST("/:id/start", h.Start)
	write.POST("/:id/complete", h.Complete)
	write.POST("/:id/cancel", h.Cancel)
}

// List lists service orders. Supports ?status= and ?search= filters.
func (h *OrderHandler) List(c *gin.Context) {
	req, ok := bindListRequest(c)
	if !ok {
		return
	}
	filter := req.ToFilter()
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	orders, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Get returns one order with its items and notes
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	order, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Create opens a new service order
func (h *OrderHandler) Create(c *gin.Context) {
	var req appworkshop.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid order payload")
		return
	}

	order, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// AddItem adds a line item to an order
func (h *OrderHandler) AddItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req appworkshop.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid item payload")
		return
	}

	order, err := h.service.AddItem(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// RemoveItem removes a line item from an order
func (h *OrderHandler) RemoveItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(c.Param("itemID"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	order, err := h.service.RemoveItem(c.Request.Context(), id, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// AddNote appends a note to an order
func (h *OrderHandler) AddNote(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid note payload")
		return
	}

	order, err := h.service.AddNote(c.Request.Context(), id, req.Text)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Start moves an order to IN_PROGRESS
func (h *OrderHandler) Start(c *gin.Context) {
	h.transition(c, h.service.Start)
}

// Complete settles an order: status, stock and the financial ledger in
// one transaction. Safe to call twice; the second call is a no-op.
func (h *OrderHandler) Complete(c *gin.Context) {
	h.transition(c, h.service.Complete)
}

// Cancel voids an order
func (h *OrderHandler) Cancel(c *gin.Context) {
	h.transition(c, h.service.Cancel)
}

func (h *OrderHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*workshop.ServiceOrder, error)) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	order, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
