package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	appfinance "github.com/marealta/backend/internal/application/finance"
	"github.com/marealta/backend/internal/interfaces/http/middleware"
)

// FinanceHandler handles the financial ledger endpoints
type FinanceHandler struct {
	BaseHandler
	service *appfinance.Service
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(service *appfinance.Service) *FinanceHandler {
	return &FinanceHandler{service: service}
}

// RegisterRoutes registers finance routes
func (h *FinanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	finance := rg.Group("/finance")
	finance.GET("/transactions", h.List)
	finance.GET("/transactions/:id", h.Get)
	finance.GET("/summary", h.Summary)

	write := finance.Group("", middleware.RequireWriteRole())
	write.POST("/transactions", h.Record)
	write.POST("/transactions/:id/pay", h.MarkPaid)
	write.POST("/transactions/:id/cancel", h.Cancel)
}

// List lists ledger entries. Supports ?type= and ?status= filters.
func (h *FinanceHandler) List(c *gin.Context) {
	req, ok := bindListRequest(c)
	if !ok {
		return
	}
	filter := req.ToFilter()
	if txType := c.Query("type"); txType != "" {
		filter.Filters["type"] = txType
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	transactions, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, transactions, total, filter.Page, filter.PageSize)
}

// Get returns a transaction by ID
func (h *FinanceHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	tx, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

// Record writes a manual ledger entry
func (h *FinanceHandler) Record(c *gin.Context) {
	var req appfinance.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid transaction payload")
		return
	}

	tx, err := h.service.Record(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tx)
}

// MarkPaid settles a pending transaction
func (h *FinanceHandler) MarkPaid(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	tx, err := h.service.MarkPaid(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

// Cancel voids a pending transaction
func (h *FinanceHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	tx, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

// Summary aggregates the ledger over a period. ?from= and ?to= take
// RFC 3339 dates; omitting both means the current month.
func (h *FinanceHandler) Summary(c *gin.Context) {
	var from, to time.Time
	var err error
	if value := c.Query("from"); value != "" {
		if from, err = time.Parse(time.RFC3339, value); err != nil {
			h.BadRequest(c, "Invalid from date")
			return
		}
	}
	if value := c.Query("to"); value != "" {
		if to, err = time.Parse(time.RFC3339, value); err != nil {
			h.BadRequest(c, "Invalid to date")
			return
		}
	}

	summary, err := h.service.Summary(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
