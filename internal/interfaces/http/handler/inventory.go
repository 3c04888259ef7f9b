package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ledgerline/backend/internal/application/inventory"
)

// InventoryHandler serves stock movement and balance endpoints
type InventoryHandler struct {
	BaseHandler
	service *inventory.InventoryService
}

// NewInventoryHandler creates an inventory handler
func NewInventoryHandler(service *inventory.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// RegisterRoutes registers inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inv := rg.Group("/inventory")
	{
		inv.POST("/receipts", h.Receive)
		inv.POST("/issues", h.Issue)
		inv.POST("/adjustments", h.Adjust)
		inv.GET("/balance", h.GetBalance)
	}

	cycles := rg.Group("/cycles")
	{
		cycles.GET("/:id/balances", h.ListBalances)
		cycles.GET("/:id/movements", h.ListMovements)
		cycles.GET("/:id/valuation", h.CycleValuation)
	}

	rg.GET("/balances/:id/movements", h.ListBalanceMovements)
}

// Receive books purchased stock into a cycle and recomputes the weighted
// average cost
func (h *InventoryHandler) Receive(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	var req inventory.ReceiveStockRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if req.OperatorID == nil {
		req.OperatorID = h.ActorID(c)
	}

	resp, err := h.service.ReceiveStock(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Issue books stock out of a cycle at the current weighted average cost
func (h *InventoryHandler) Issue(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	var req inventory.IssueStockRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if req.OperatorID == nil {
		req.OperatorID = h.ActorID(c)
	}

	resp, err := h.service.IssueStock(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Adjust books a signed manual stock correction
func (h *InventoryHandler) Adjust(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	var req inventory.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if req.OperatorID == nil {
		req.OperatorID = h.ActorID(c)
	}

	resp, err := h.service.AdjustStock(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetBalance returns the balance for one product in one cycle
func (h *InventoryHandler) GetBalance(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	var query struct {
		ProjectID uuid.UUID `form:"project_id" binding:"required"`
		CycleID   uuid.UUID `form:"cycle_id" binding:"required"`
		ProductID uuid.UUID `form:"product_id" binding:"required"`
	}
	if !h.BindQuery(c, &query) {
		return
	}

	resp, err := h.service.GetBalance(c.Request.Context(), orgID, query.ProjectID, query.CycleID, query.ProductID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListBalances returns the balances held in a cycle
func (h *InventoryHandler) ListBalances(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	cycleID, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	var filter inventory.BalanceListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	balances, total, err := h.service.ListBalances(c.Request.Context(), orgID, cycleID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, balances, total, filter.Page, filter.PageSize)
}

// ListMovements returns the cycle's movement ledger, newest first
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	cycleID, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	var filter inventory.MovementListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	movements, total, err := h.service.ListMovements(c.Request.Context(), orgID, cycleID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}

// ListBalanceMovements returns the full movement history of one balance.
// Replaying it in order reproduces the balance's quantity and average cost.
func (h *InventoryHandler) ListBalanceMovements(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	balanceID, ok := h.UUIDParam(c, "id")
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

	movements, total, err := h.service.ListBalanceMovements(c.Request.Context(), orgID, balanceID, paging.Page, paging.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, movements, total, paging.Page, paging.PageSize)
}

// CycleValuation sums the inventory value held in a cycle
func (h *InventoryHandler) CycleValuation(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	cycleID, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.CycleValuation(c.Request.Context(), orgID, cycleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
