package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductionOrderStatus represents the status of a production order
type ProductionOrderStatus string

const (
	ProductionOrderStatusDraft     ProductionOrderStatus = "DRAFT"
	ProductionOrderStatusCompleted ProductionOrderStatus = "COMPLETED"
	ProductionOrderStatusCancelled ProductionOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid ProductionOrderStatus
func (s ProductionOrderStatus) IsValid() bool {
	switch s {
	case ProductionOrderStatusDraft, ProductionOrderStatusCompleted, ProductionOrderStatusCancelled:
		return true
	}
	return false
}

// ProductionComponent is one component consumption line of a production
// order. Quantity is the total amount consumed for the whole run; UnitCost
// is the weighted average cost the component was issued at.
type ProductionComponent struct {
	shared.BaseEntity
	ProductionOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ComponentID       uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalCost         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductionComponent) TableName() string {
	return "production_components"
}

// ProductionOrder converts bill-of-material components into finished stock.
// Completing the order consumes each component at its current weighted
// average cost and receives the output at
//
//	unit cost = total component cost / output quantity
//
// rounded to 4 decimal places.
type ProductionOrder struct {
	shared.OrgAggregateRoot
	Number         string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_production_org_number,priority:2"`
	ProjectID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	CycleID        uuid.UUID             `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID             `gorm:"type:uuid;not null"`
	OutputQuantity decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	UnitCost       decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	TotalCost      decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Status         ProductionOrderStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Components     []ProductionComponent `gorm:"foreignKey:ProductionOrderID;constraint:OnDelete:CASCADE"`
	CompletedAt    *time.Time            `gorm:"type:timestamptz"`
	CancelledAt    *time.Time            `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (ProductionOrder) TableName() string {
	return "production_orders"
}

// NewProductionOrder creates a draft production order. Component lines are
// derived from the product's bill of materials scaled by the output
// quantity; the caller supplies them already scaled.
func NewProductionOrder(orgID, projectID, cycleID, productID uuid.UUID, number string, outputQuantity decimal.Decimal) (*ProductionOrder, error) {
	if orgID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORG", "Organization ID cannot be empty")
	}
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project ID cannot be empty")
	}
	if cycleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CYCLE", "Cycle ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Production order number cannot be empty")
	}
	if outputQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Output quantity must be positive")
	}

	po := &ProductionOrder{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Number:           number,
		ProjectID:        projectID,
		CycleID:          cycleID,
		ProductID:        productID,
		OutputQuantity:   outputQuantity,
		UnitCost:         decimal.Zero,
		TotalCost:        decimal.Zero,
		Status:           ProductionOrderStatusDraft,
		Components:       make([]ProductionComponent, 0),
	}
	po.AddDomainEvent(NewProductionOrderCreatedEvent(po))
	return po, nil
}

// AddComponent records one component requirement. Only allowed in DRAFT status.
func (po *ProductionOrder) AddComponent(componentID uuid.UUID, quantity decimal.Decimal) error {
	if po.Status != ProductionOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot add components to a non-draft production order")
	}
	if componentID == uuid.Nil {
		return shared.NewDomainError("INVALID_COMPONENT", "Component ID cannot be empty")
	}
	if componentID == po.ProductID {
		return shared.NewDomainError("INVALID_COMPONENT", "Output product cannot be its own component")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Component quantity must be positive")
	}
	for _, c := range po.Components {
		if c.ComponentID == componentID {
			return shared.NewDomainError("DUPLICATE_COMPONENT", "Component already present on production order")
		}
	}

	c := ProductionComponent{
		BaseEntity:        shared.NewBaseEntity(),
		ProductionOrderID: po.ID,
		ComponentID:       componentID,
		Quantity:          quantity,
	}
	po.Components = append(po.Components, c)
	po.Touch()
	po.IncrementVersion()
	return nil
}

// Complete records the actual consumption costs and derives the output unit
// cost. componentCosts maps component ID to the unit cost it was issued at;
// every component line must be priced.
func (po *ProductionOrder) Complete(componentCosts map[uuid.UUID]decimal.Decimal) error {
	if po.Status != ProductionOrderStatusDraft {
		return shared.ErrInvalidState
	}
	if len(po.Components) == 0 {
		return shared.NewDomainError("NO_COMPONENTS", "Production order has no components to consume")
	}

	totalCost := decimal.Zero
	for i := range po.Components {
		c := &po.Components[i]
		cost, ok := componentCosts[c.ComponentID]
		if !ok {
			return shared.NewDomainError("MISSING_COST", "Issue cost missing for component")
		}
		if cost.IsNegative() {
			return shared.NewDomainError("INVALID_COST", "Component cost cannot be negative")
		}
		c.UnitCost = cost
		c.TotalCost = c.Quantity.Mul(cost)
		totalCost = totalCost.Add(c.TotalCost)
	}

	now := time.Now()
	po.TotalCost = totalCost
	po.UnitCost = totalCost.Div(po.OutputQuantity).Round(4)
	po.Status = ProductionOrderStatusCompleted
	po.CompletedAt = &now
	po.Touch()
	po.IncrementVersion()
	po.AddDomainEvent(NewProductionOrderCompletedEvent(po))
	return nil
}

// Cancel discards a draft production order
func (po *ProductionOrder) Cancel() error {
	if po.Status != ProductionOrderStatusDraft {
		return shared.ErrInvalidState
	}
	now := time.Now()
	po.Status = ProductionOrderStatusCancelled
	po.CancelledAt = &now
	po.Touch()
	po.IncrementVersion()
	return nil
}

// IsCompleted returns true if the order has been executed
func (po *ProductionOrder) IsCompleted() bool {
	return po.Status == ProductionOrderStatusCompleted
}
