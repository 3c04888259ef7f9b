package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ledgerline/backend/internal/application/trade"
)

// SaleHandler serves sale endpoints
type SaleHandler struct {
	BaseHandler
	service *trade.SaleService
}

// NewSaleHandler creates a sale handler
func NewSaleHandler(service *trade.SaleService) *SaleHandler {
	return &SaleHandler{service: service}
}

// RegisterRoutes registers sale routes
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	{
		sales.POST("", h.Create)
		sales.GET("/:id", h.GetByID)
		sales.GET("/number/:number", h.GetByNumber)
		sales.POST("/:id/lines", h.AddLine)
		sales.DELETE("/:id/lines/:lineID", h.RemoveLine)
		sales.POST("/:id/post", h.Post)
		sales.POST("/:id/cancel", h.Cancel)
	}

	rg.GET("/cycles/:id/sales", h.ListForCycle)
}

// Create drafts a sale, optionally with initial lines
func (h *SaleHandler) Create(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	var req trade.CreateSaleRequest
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

// GetByID returns one sale with its lines
func (h *SaleHandler) GetByID(c *gin.Context) {
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

// GetByNumber returns one sale by its document number
func (h *SaleHandler) GetByNumber(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	resp, err := h.service.GetByNumber(c.Request.Context(), orgID, c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddLine appends a product line to a draft sale
func (h *SaleHandler) AddLine(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req trade.AddSaleLineRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.AddLine(c.Request.Context(), orgID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveLine removes a line from a draft sale
func (h *SaleHandler) RemoveLine(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.UUIDParam(c, "lineID")
	if !ok {
		return
	}

	resp, err := h.service.RemoveLine(c.Request.Context(), orgID, id, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Post finalizes a draft sale: stock is issued for every GOODS line and the
// captured cost becomes the sale's COGS, atomically.
func (h *SaleHandler) Post(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req trade.PostSaleRequest
	if !h.BindJSONOptional(c, &req) {
		return
	}
	if req.OperatorID == nil {
		req.OperatorID = h.ActorID(c)
	}

	resp, err := h.service.Post(c.Request.Context(), orgID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel discards a draft sale
func (h *SaleHandler) Cancel(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req trade.CancelSaleRequest
	if !h.BindJSONOptional(c, &req) {
		return
	}

	resp, err := h.service.Cancel(c.Request.Context(), orgID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListForCycle returns the cycle's sales
func (h *SaleHandler) ListForCycle(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	cycleID, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	var filter trade.SaleListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	sales, total, err := h.service.ListForCycle(c.Request.Context(), orgID, cycleID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, sales, total, filter.Page, filter.PageSize)
}
