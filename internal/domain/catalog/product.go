package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/shared"
	"github.com/ledgerline/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProductKind distinguishes stock-tracked goods from services
type ProductKind string

const (
	// ProductKindGoods are tracked in inventory; selling or consuming them
	// moves stock
	ProductKindGoods ProductKind = "GOODS"
	// ProductKindService lines never touch inventory
	ProductKindService ProductKind = "SERVICE"
)

// ProductStatus represents the lifecycle state of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "ACTIVE"
	ProductStatusInactive ProductStatus = "INACTIVE"
)

// Product is a sellable good or service. SKU is unique per organization.
// Goods may carry a bill of materials describing the components one
// produced unit consumes.
type Product struct {
	shared.OrgAggregateRoot
	SKU          string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_org_sku,priority:2"`
	Name         string          `gorm:"type:varchar(150);not null"`
	Description  string          `gorm:"type:varchar(500)"`
	Unit         string          `gorm:"type:varchar(20);not null;default:'pcs'"`
	Kind         ProductKind     `gorm:"type:varchar(20);not null;default:'GOODS'"`
	Status       ProductStatus   `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0"`
	BOMLines     []BOMLine       `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// BOMLine is one component requirement of a produced product: producing one
// unit of the parent consumes Quantity units of ComponentID.
type BOMLine struct {
	shared.BaseEntity
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_bom_product_component,priority:1"`
	ComponentID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_bom_product_component,priority:2"`
	Quantity    decimal.Decimal `gorm:"type:decimal(20,4);not null"`
}

// TableName returns the table name for GORM
func (BOMLine) TableName() string {
	return "bom_lines"
}

// NewProduct creates a new active product
func NewProduct(orgID uuid.UUID, sku, name, unit string, kind ProductKind, sellingPrice valueobject.Money) (*Product, error) {
	if orgID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORG", "Organization ID cannot be empty")
	}
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if kind != ProductKindGoods && kind != ProductKindService {
		return nil, shared.NewDomainError("INVALID_KIND", "Product kind must be GOODS or SERVICE")
	}
	if sellingPrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}
	if unit = strings.TrimSpace(unit); unit == "" {
		unit = "pcs"
	}

	p := &Product{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		SKU:              sku,
		Name:             name,
		Unit:             unit,
		Kind:             kind,
		Status:           ProductStatusActive,
		SellingPrice:     sellingPrice.Amount(),
	}
	p.AddDomainEvent(NewProductCreatedEvent(p))
	return p, nil
}

// Update changes the mutable product fields
func (p *Product) Update(name, description string, sellingPrice valueobject.Money) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if sellingPrice.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}
	p.Name = name
	p.Description = description
	p.SellingPrice = sellingPrice.Amount()
	p.Touch()
	p.IncrementVersion()
	return nil
}

// GetSellingPriceMoney returns the selling price as a Money value object
// in the given currency
func (p *Product) GetSellingPriceMoney(currency valueobject.Currency) valueobject.Money {
	m, _ := valueobject.NewMoney(p.SellingPrice, currency)
	return m
}

// SetBOM replaces the bill of materials. Only goods carry a BOM; that the
// components themselves are goods is checked by the application layer, which
// can see the other products. Component references must be distinct and must
// not include the product itself; quantities must be positive.
func (p *Product) SetBOM(lines []BOMLine) error {
	if p.Kind != ProductKindGoods {
		return shared.NewDomainError("NOT_GOODS", "Only goods can have a bill of materials")
	}
	seen := make(map[uuid.UUID]bool, len(lines))
	for i := range lines {
		line := &lines[i]
		if line.ComponentID == uuid.Nil {
			return shared.NewDomainError("INVALID_COMPONENT", "BOM component ID cannot be empty")
		}
		if line.ComponentID == p.ID {
			return shared.NewDomainError("INVALID_COMPONENT", "Product cannot be a component of itself")
		}
		if seen[line.ComponentID] {
			return shared.NewDomainError("DUPLICATE_COMPONENT", "BOM components must be distinct")
		}
		seen[line.ComponentID] = true
		if !line.Quantity.IsPositive() {
			return shared.NewDomainError("INVALID_QUANTITY", "BOM line quantity must be positive")
		}
		if line.ID == uuid.Nil {
			line.BaseEntity = shared.NewBaseEntity()
		}
		line.ProductID = p.ID
	}
	p.BOMLines = lines
	p.Touch()
	p.IncrementVersion()
	p.AddDomainEvent(NewProductBOMChangedEvent(p))
	return nil
}

// HasBOM returns true if the product carries at least one BOM line
func (p *Product) HasBOM() bool {
	return len(p.BOMLines) > 0
}

// IsStockTracked returns true if the product moves inventory when sold or
// consumed
func (p *Product) IsStockTracked() bool {
	return p.Kind == ProductKindGoods
}

// Deactivate removes the product from active use. Existing balances and
// ledger history remain intact.
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.ErrInvalidState
	}
	p.Status = ProductStatusInactive
	p.Touch()
	p.IncrementVersion()
	p.AddDomainEvent(NewProductDeactivatedEvent(p))
	return nil
}

// Activate re-enables an inactive product
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.ErrInvalidState
	}
	p.Status = ProductStatusActive
	p.Touch()
	p.IncrementVersion()
	return nil
}

// IsActive returns true if the product can appear on new documents
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}
