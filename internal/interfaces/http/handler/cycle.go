package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ledgerline/backend/internal/application/planning"
)

// CycleHandler serves budget cycle endpoints, including the one-way lock
type CycleHandler struct {
	BaseHandler
	cycles *planning.CycleService
	closer *planning.CycleCloseService
}

// NewCycleHandler creates a cycle handler
func NewCycleHandler(cycles *planning.CycleService, closer *planning.CycleCloseService) *CycleHandler {
	return &CycleHandler{cycles: cycles, closer: closer}
}

// RegisterRoutes registers cycle routes
func (h *CycleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cycles := rg.Group("/cycles")
	{
		cycles.POST("", h.Create)
		cycles.GET("/:id", h.GetByID)
		cycles.POST("/:id/lock", h.Lock)
	}

	projects := rg.Group("/projects")
	{
		projects.GET("/:id/cycles", h.ListForProject)
		projects.GET("/:id/cycles/open", h.GetOpenForProject)
	}
}

// Create opens a new cycle for a project. At most one cycle per project may
// be open at a time.
func (h *CycleHandler) Create(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	var req planning.CreateCycleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.cycles.Create(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID returns one cycle
func (h *CycleHandler) GetByID(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.cycles.GetByID(c.Request.Context(), orgID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetOpenForProject returns the project's currently open cycle
func (h *CycleHandler) GetOpenForProject(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	projectID, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.cycles.GetOpenForProject(c.Request.Context(), orgID, projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListForProject returns the project's cycles, newest sequence first
func (h *CycleHandler) ListForProject(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	projectID, ok := h.UUIDParam(c, "id")
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

	cycles, total, err := h.cycles.ListForProject(c.Request.Context(), orgID, projectID, paging.Page, paging.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, cycles, total, paging.Page, paging.PageSize)
}

// Lock permanently locks a cycle. Remaining stock is carried forward into
// the open successor in the same transaction; when none exists the request
// must describe the successor to open.
func (h *CycleHandler) Lock(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req planning.LockCycleRequest
	if !h.BindJSONOptional(c, &req) {
		return
	}

	resp, err := h.closer.Lock(c.Request.Context(), orgID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
