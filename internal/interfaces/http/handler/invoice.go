package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ledgerline/backend/internal/application/finance"
)

// InvoiceHandler serves invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	service *finance.InvoiceService
}

// NewInvoiceHandler creates an invoice handler
func NewInvoiceHandler(service *finance.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

// RegisterRoutes registers invoice routes
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.Create)
		invoices.GET("/:id", h.GetByID)
		invoices.GET("/number/:number", h.GetByNumber)
		invoices.POST("/:id/issue", h.Issue)
		invoices.POST("/:id/pay", h.MarkPaid)
		invoices.POST("/:id/void", h.Void)
	}

	rg.GET("/cycles/:id/invoices", h.ListForCycle)
}

// Create drafts an invoice, either free-form or derived from a posted sale
func (h *InvoiceHandler) Create(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	var req finance.CreateInvoiceRequest
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

// GetByID returns one invoice with its lines
func (h *InvoiceHandler) GetByID(c *gin.Context) {
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

// GetByNumber returns one invoice by its document number
func (h *InvoiceHandler) GetByNumber(c *gin.Context) {
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

// Issue finalizes a draft invoice and stamps the issue date
func (h *InvoiceHandler) Issue(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req finance.IssueInvoiceRequest
	if !h.BindJSONOptional(c, &req) {
		return
	}

	resp, err := h.service.Issue(c.Request.Context(), orgID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MarkPaid settles an issued invoice
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.MarkPaid(c.Request.Context(), orgID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Void voids a draft or issued invoice. Paid invoices cannot be voided.
func (h *InvoiceHandler) Void(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req finance.VoidInvoiceRequest
	if !h.BindJSONOptional(c, &req) {
		return
	}

	resp, err := h.service.Void(c.Request.Context(), orgID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListForCycle returns the cycle's invoices
func (h *InvoiceHandler) ListForCycle(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	cycleID, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	var filter finance.InvoiceListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	invoices, total, err := h.service.ListForCycle(c.Request.Context(), orgID, cycleID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}
