package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ledgerline/backend/internal/application/org"
)

// OrganizationHandler serves organization endpoints
type OrganizationHandler struct {
	BaseHandler
	service *org.OrganizationService
}

// NewOrganizationHandler creates an organization handler
func NewOrganizationHandler(service *org.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{service: service}
}

// RegisterRoutes registers organization routes
func (h *OrganizationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orgs := rg.Group("/organizations")
	{
		orgs.POST("", h.Create)
		orgs.GET("", h.List)
		orgs.GET("/:id", h.GetByID)
		orgs.GET("/slug/:slug", h.GetBySlug)
		orgs.PUT("/:id", h.Update)
		orgs.POST("/:id/suspend", h.Suspend)
		orgs.POST("/:id/activate", h.Activate)
	}
}

// Create registers a new organization
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req org.CreateOrganizationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns organizations with pagination
func (h *OrganizationHandler) List(c *gin.Context) {
	var filter org.OrganizationListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	resp, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, resp, total, filter.Page, filter.PageSize)
}

// GetByID returns one organization
func (h *OrganizationHandler) GetByID(c *gin.Context) {
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetBySlug returns one organization by its slug
func (h *OrganizationHandler) GetBySlug(c *gin.Context) {
	resp, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update renames an organization
func (h *OrganizationHandler) Update(c *gin.Context) {
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req org.UpdateOrganizationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Suspend suspends an organization; writes under it are refused until it
// is activated again
func (h *OrganizationHandler) Suspend(c *gin.Context) {
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.Suspend(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Activate reinstates a suspended organization
func (h *OrganizationHandler) Activate(c *gin.Context) {
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
