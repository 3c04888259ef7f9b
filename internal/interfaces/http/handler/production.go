package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ledgerline/backend/internal/application/inventory"
)

// ProductionHandler serves production order endpoints
type ProductionHandler struct {
	BaseHandler
	service *inventory.ProductionService
}

// NewProductionHandler creates a production handler
func NewProductionHandler(service *inventory.ProductionService) *ProductionHandler {
	return &ProductionHandler{service: service}
}

// RegisterRoutes registers production order routes
func (h *ProductionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/production-orders")
	{
		orders.POST("", h.Create)
		orders.GET("/:id", h.GetByID)
		orders.POST("/:id/complete", h.Complete)
		orders.POST("/:id/cancel", h.Cancel)
	}

	rg.GET("/cycles/:id/production-orders", h.ListForCycle)
}

// Create drafts a production order from the product's bill of materials
func (h *ProductionHandler) Create(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	var req inventory.CreateProductionOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.Create(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID returns one production order with its component lines
func (h *ProductionHandler) GetByID(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), orgID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Complete executes the order: components are issued at their current
// average cost and the output is received at the summed component cost, all
// in one transaction.
func (h *ProductionHandler) Complete(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.Complete(c.Request.Context(), orgID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel discards a draft order. Completed orders cannot be cancelled.
func (h *ProductionHandler) Cancel(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Cancel(c.Request.Context(), orgID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListForCycle returns the cycle's production orders
func (h *ProductionHandler) ListForCycle(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	cycleID, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	var paging struct {
		Page     int `form:"page"`
		PageSize int `form:"page_size"`
	}
	if !h.BindQuery(c, &paging) {
		return
	}

	orders, total, err := h.service.ListForCycle(c.Request.Context(), orgID, cycleID, paging.Page, paging.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, paging.Page, paging.PageSize)
}
