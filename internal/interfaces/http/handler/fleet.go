package handler

import (
	"github.com/gin-gonic/gin"

	appfleet "github.com/marealta/backend/internal/application/fleet"
	"github.com/marealta/backend/internal/interfaces/http/middleware"
)

// FleetHandler handles client and boat endpoints
type FleetHandler struct {
	BaseHandler
	service *appfleet.Service
}

// NewFleetHandler creates a new FleetHandler
func NewFleetHandler(service *appfleet.Service) *FleetHandler {
	return &FleetHandler{service: service}
}

// RegisterRoutes registers client and boat routes
func (h *FleetHandler) RegisterRoutes(rg *gin.RouterGroup) {
	clients := rg.Group("/clients")
	clients.GET("", h.ListClients)
	clients.GET("/:id", h.GetClient)
	clients.GET("/:id/boats", h.ListClientBoats)

	clientWrites := clients.Group("", middleware.RequireWriteRole())
	clientWrites.POST("", h.CreateClient)
	clientWrites.PUT("/:id", h.UpdateClient)
	clientWrites.DELETE("/:id", h.DeleteClient)

	boats := rg.Group("/boats")
	boats.GET("", h.ListBoats)
	boats.GET("/:id", h.GetBoat)

	boatWrites := boats.Group("", middleware.RequireWriteRole())
	boatWrites.POST("", h.CreateBoat)
	boatWrites.DELETE("/:id", h.DeleteBoat)
}

// ListClients lists clients
func (h *FleetHandler) ListClients(c *gin.Context) {
	req, ok := bindListRequest(c)
	if !ok {
		return
	}
	filter := req.ToFilter()

	clients, total, err := h.service.ListClients(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, clients, total, filter.Page, filter.PageSize)
}

// GetClient returns a client by ID
func (h *FleetHandler) GetClient(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	client, err := h.service.GetClient(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// CreateClient registers a new client
func (h *FleetHandler) CreateClient(c *gin.Context) {
	var req appfleet.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid client payload")
		return
	}

	client, err := h.service.CreateClient(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, client)
}

// UpdateClient replaces a client's contact details
func (h *FleetHandler) UpdateClient(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req appfleet.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid client payload")
		return
	}

	client, err := h.service.UpdateClient(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// DeleteClient removes a client without boats
func (h *FleetHandler) DeleteClient(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteClient(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListClientBoats lists a client's boats
func (h *FleetHandler) ListClientBoats(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	boats, err := h.service.ListBoatsByClient(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, boats)
}

// ListBoats lists boats
func (h *FleetHandler) ListBoats(c *gin.Context) {
	req, ok := bindListRequest(c)
	if !ok {
		return
	}
	filter := req.ToFilter()

	boats, total, err := h.service.ListBoats(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, boats, total, filter.Page, filter.PageSize)
}

// GetBoat returns a boat by ID
func (h *FleetHandler) GetBoat(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	boat, err := h.service.GetBoat(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, boat)
}

// CreateBoat registers a boat under a client
func (h *FleetHandler) CreateBoat(c *gin.Context) {
	var req appfleet.CreateBoatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid boat payload")
		return
	}

	boat, err := h.service.CreateBoat(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, boat)
}

// DeleteBoat removes a boat
func (h *FleetHandler) DeleteBoat(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteBoat(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
