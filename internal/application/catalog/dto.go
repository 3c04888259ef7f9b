package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest is the request to create a product
type CreateProductRequest struct {
	SKU          string          `json:"sku" binding:"required,max=50"`
	Name         string          `json:"name" binding:"required,max=150"`
	Description  string          `json:"description" binding:"max=500"`
	Unit         string          `json:"unit" binding:"max=20"`
	Kind         string          `json:"kind" binding:"required,oneof=GOODS SERVICE"`
	SellingPrice decimal.Decimal `json:"selling_price" binding:"dgte0"`
}

// UpdateProductRequest is the request to update a product
type UpdateProductRequest struct {
	Name         string          `json:"name" binding:"required,max=150"`
	Description  string          `json:"description" binding:"max=500"`
	SellingPrice decimal.Decimal `json:"selling_price" binding:"dgte0"`
}

// BOMLineRequest is one component line of a bill of materials
type BOMLineRequest struct {
	ComponentID uuid.UUID       `json:"component_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required,dgt0"`
}

// SetBOMRequest replaces the bill of materials of a product
type SetBOMRequest struct {
	Lines []BOMLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ProductListFilter contains filter options for product queries
type ProductListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Kind     string `form:"kind"`
	Status   string `form:"status"`
	Search   string `form:"search"`
}

// BOMLineResponse is one component line of a product's bill of materials
type BOMLineResponse struct {
	ComponentID uuid.UUID       `json:"component_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// ProductResponse is the response representation of a product
type ProductResponse struct {
	ID           uuid.UUID         `json:"id"`
	SKU          string            `json:"sku"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	Unit         string            `json:"unit"`
	Kind         string            `json:"kind"`
	Status       string            `json:"status"`
	SellingPrice decimal.Decimal   `json:"selling_price"`
	BOM          []BOMLineResponse `json:"bom,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// ToProductResponse converts a domain product to its response representation
func ToProductResponse(p *catalog.Product) ProductResponse {
	var bom []BOMLineResponse
	if len(p.BOMLines) > 0 {
		bom = make([]BOMLineResponse, len(p.BOMLines))
		for i, line := range p.BOMLines {
			bom[i] = BOMLineResponse{
				ComponentID: line.ComponentID,
				Quantity:    line.Quantity,
			}
		}
	}
	return ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		Unit:         p.Unit,
		Kind:         string(p.Kind),
		Status:       string(p.Status),
		SellingPrice: p.SellingPrice,
		BOM:          bom,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
