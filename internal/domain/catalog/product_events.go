package catalog

import (
	"github.com/ledgerline/backend/internal/domain/shared"
)

// Event types for the catalog context
const (
	EventTypeProductCreated     = "catalog.product.created"
	EventTypeProductDeactivated = "catalog.product.deactivated"
	EventTypeProductBOMChanged  = "catalog.product.bom_changed"
)

// ProductCreatedEvent is emitted when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	SKU  string `json:"sku"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, "Product", p.ID, p.OrgID),
		SKU:             p.SKU,
		Name:            p.Name,
		Kind:            string(p.Kind),
	}
}

// ProductDeactivatedEvent is emitted when a product is deactivated
type ProductDeactivatedEvent struct {
	shared.BaseDomainEvent
	SKU string `json:"sku"`
}

// NewProductDeactivatedEvent creates a new ProductDeactivatedEvent
func NewProductDeactivatedEvent(p *Product) *ProductDeactivatedEvent {
	return &ProductDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductDeactivated, "Product", p.ID, p.OrgID),
		SKU:             p.SKU,
	}
}

// ProductBOMChangedEvent is emitted when a product's bill of materials is replaced
type ProductBOMChangedEvent struct {
	shared.BaseDomainEvent
	SKU       string `json:"sku"`
	LineCount int    `json:"line_count"`
}

// NewProductBOMChangedEvent creates a new ProductBOMChangedEvent
func NewProductBOMChangedEvent(p *Product) *ProductBOMChangedEvent {
	return &ProductBOMChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductBOMChanged, "Product", p.ID, p.OrgID),
		SKU:             p.SKU,
		LineCount:       len(p.BOMLines),
	}
}
