package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ledgerline/backend/internal/application/catalog"
)

// ProductHandler serves product catalog endpoints
type ProductHandler struct {
	BaseHandler
	service *catalog.ProductService
}

// NewProductHandler creates a product handler
func NewProductHandler(service *catalog.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// RegisterRoutes registers product routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.POST("", h.Create)
		products.GET("", h.List)
		products.GET("/:id", h.GetByID)
		products.GET("/sku/:sku", h.GetBySKU)
		products.PUT("/:id", h.Update)
		products.PUT("/:id/bom", h.SetBOM)
		products.POST("/:id/activate", h.Activate)
		products.POST("/:id/deactivate", h.Deactivate)
	}
}

// Create adds a product to the organization's catalog
func (h *ProductHandler) Create(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	var req catalog.CreateProductRequest
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

// List returns catalog products with optional kind/status/search filters
func (h *ProductHandler) List(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	var filter catalog.ProductListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	products, total, err := h.service.List(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// GetByID returns one product with its bill of materials
func (h *ProductHandler) GetByID(c *gin.Context) {
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

// GetBySKU returns one product by SKU
func (h *ProductHandler) GetBySKU(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	resp, err := h.service.GetBySKU(c.Request.Context(), orgID, c.Param("sku"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update changes mutable product attributes. SKU and kind are fixed at
// creation.
func (h *ProductHandler) Update(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req catalog.UpdateProductRequest
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

// SetBOM replaces the product's bill of materials. Only GOODS products can
// carry a BOM, and every component must itself be GOODS.
func (h *ProductHandler) SetBOM(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req catalog.SetBOMRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.SetBOM(c.Request.Context(), orgID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Activate returns a deactivated product to the sellable catalog
func (h *ProductHandler) Activate(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.Activate(c.Request.Context(), orgID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Deactivate removes a product from the sellable catalog without deleting
// its history
func (h *ProductHandler) Deactivate(c *gin.Context) {
	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.Deactivate(c.Request.Context(), orgID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
