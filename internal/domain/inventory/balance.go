package inventory

import (
	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/shared"
	"github.com/ledgerline/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Balance is the stock position of one product within one budget cycle of a
// project. It is the aggregate root for stock operations; the composite
// identifier is ProjectID + CycleID + ProductID. UnitCost carries the moving
// weighted average cost of the quantity on hand.
type Balance struct {
	shared.OrgAggregateRoot
	ProjectID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_balance_scope,priority:2"`
	CycleID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_balance_scope,priority:3"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_balance_scope,priority:4"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Balance) TableName() string {
	return "inventory_balances"
}

// NewBalance creates an empty balance for a product in a cycle
func NewBalance(orgID, projectID, cycleID, productID uuid.UUID) (*Balance, error) {
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

	return &Balance{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		ProjectID:        projectID,
		CycleID:          cycleID,
		ProductID:        productID,
		Quantity:         decimal.Zero,
		UnitCost:         decimal.Zero,
	}, nil
}

// Increase adds stock and recalculates the unit cost as a moving weighted
// average:
//
//	New Cost = (Old Qty * Old Cost + In Qty * In Cost) / (Old Qty + In Qty)
//
// rounded to 4 decimal places. An increase into an empty balance takes the
// incoming cost verbatim.
func (b *Balance) Increase(quantity decimal.Decimal, unitCost valueobject.Money) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	oldCost := b.UnitCost
	oldQuantity := b.Quantity

	if oldQuantity.IsZero() {
		b.UnitCost = unitCost.Amount()
	} else {
		totalValue := oldQuantity.Mul(oldCost).Add(quantity.Mul(unitCost.Amount()))
		totalQuantity := oldQuantity.Add(quantity)
		b.UnitCost = totalValue.Div(totalQuantity).Round(4)
	}

	b.Quantity = b.Quantity.Add(quantity)
	b.Touch()
	b.IncrementVersion()

	if !oldCost.Equal(b.UnitCost) {
		b.AddDomainEvent(NewBalanceCostChangedEvent(b, oldCost, b.UnitCost))
	}

	return nil
}

// Decrease removes stock at the current weighted average cost and returns
// the unit cost the outflow was valued at. Stock can never go negative; a
// decrease beyond the quantity on hand is rejected. Outflows never change
// the unit cost — a balance drained to zero keeps its last average for
// reporting, and the next inflow into an empty balance takes the incoming
// cost verbatim anyway.
func (b *Balance) Decrease(quantity decimal.Decimal) (decimal.Decimal, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if b.Quantity.LessThan(quantity) {
		return decimal.Zero, shared.ErrInsufficientStock
	}

	costAtIssue := b.UnitCost
	b.Quantity = b.Quantity.Sub(quantity)
	b.Touch()
	b.IncrementVersion()

	return costAtIssue, nil
}

// SetOpening seeds a fresh balance with a carried-forward position. Only an
// empty balance can be seeded.
func (b *Balance) SetOpening(quantity, unitCost decimal.Decimal) error {
	if !b.Quantity.IsZero() {
		return shared.NewDomainError("INVALID_STATE", "Opening balance can only be set on an empty balance")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Opening quantity must be positive")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Opening unit cost cannot be negative")
	}

	b.Quantity = quantity
	b.UnitCost = unitCost
	b.Touch()
	b.IncrementVersion()
	return nil
}

// CanFulfill returns true if the quantity on hand covers the requested quantity
func (b *Balance) CanFulfill(quantity decimal.Decimal) bool {
	return b.Quantity.GreaterThanOrEqual(quantity)
}

// IsEmpty returns true if no stock is on hand
func (b *Balance) IsEmpty() bool {
	return b.Quantity.IsZero()
}

// TotalValue returns quantity * unit cost
func (b *Balance) TotalValue() decimal.Decimal {
	return b.Quantity.Mul(b.UnitCost)
}

// GetUnitCostMoney returns the unit cost as a Money value object
func (b *Balance) GetUnitCostMoney(currency valueobject.Currency) valueobject.Money {
	m, _ := valueobject.NewMoney(b.UnitCost, currency)
	return m
}
