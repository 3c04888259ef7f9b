package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ledgerline/backend/internal/application/finance"
)

// ExpenseHandler serves expense record endpoints
type ExpenseHandler struct {
	BaseHandler
	service *finance.ExpenseService
}

// NewExpenseHandler creates an expense handler
func NewExpenseHandler(service *finance.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

// RegisterRoutes registers expense routes
func (h *ExpenseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.Create)
		expenses.GET("/:id", h.GetByID)
		expenses.PUT("/:id", h.Update)
		expenses.POST("/:id/approve", h.Approve)
		expenses.POST("/:id/reject", h.Reject)
	}

	cycles := rg.Group("/cycles")
	{
		cycles.GET("/:id/expenses", h.ListForCycle)
		cycles.GET("/:id/expenses/summary", h.Summarize)
	}
}

// Create records a pending expense against an open cycle
func (h *ExpenseHandler) Create(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	var req finance.CreateExpenseRequest
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

// GetByID returns one expense record
func (h *ExpenseHandler) GetByID(c *gin.Context) {
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

// Update edits a still-pending expense
func (h *ExpenseHandler) Update(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req finance.UpdateExpenseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.Update(c.Request.Context(), orgID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Approve approves a pending expense
func (h *ExpenseHandler) Approve(c *gin.Context) {
	h.decide(c, h.service.Approve)
}

// Reject rejects a pending expense
func (h *ExpenseHandler) Reject(c *gin.Context) {
	h.decide(c, h.service.Reject)
}

func (h *ExpenseHandler) decide(
	c *gin.Context,
	fn func(ctx context.Context, orgID, id uuid.UUID, req finance.DecideExpenseRequest) (*finance.ExpenseResponse, error),
) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req finance.DecideExpenseRequest
	if !h.BindJSONOptional(c, &req) {
		return
	}
	if req.DeciderID == uuid.Nil {
		if actor := h.ActorID(c); actor != nil {
			req.DeciderID = *actor
		}
	}

	resp, err := fn(c.Request.Context(), orgID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListForCycle returns the cycle's expenses with category/status filters
func (h *ExpenseHandler) ListForCycle(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	cycleID, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	var filter finance.ExpenseListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	expenses, total, err := h.service.ListForCycle(c.Request.Context(), orgID, cycleID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, expenses, total, filter.Page, filter.PageSize)
}

// Summarize totals the cycle's approved expenses, optionally per category
func (h *ExpenseHandler) Summarize(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	cycleID, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.Summarize(c.Request.Context(), orgID, cycleID, c.Query("category"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
