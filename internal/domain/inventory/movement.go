package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MovementType represents the type of a stock movement
type MovementType string

const (
	// MovementTypeOpening seeds a cycle with the closing position carried
	// forward from its predecessor
	MovementTypeOpening MovementType = "OPENING"
	// MovementTypeReceipt represents purchased stock entering inventory
	MovementTypeReceipt MovementType = "RECEIPT"
	// MovementTypeIssue represents stock leaving inventory for a sale
	MovementTypeIssue MovementType = "ISSUE"
	// MovementTypeAdjustIn represents a positive manual correction
	MovementTypeAdjustIn MovementType = "ADJUST_IN"
	// MovementTypeAdjustOut represents a negative manual correction
	MovementTypeAdjustOut MovementType = "ADJUST_OUT"
	// MovementTypeProductionIn represents produced output entering stock
	MovementTypeProductionIn MovementType = "PRODUCTION_IN"
	// MovementTypeProductionOut represents components consumed by production
	MovementTypeProductionOut MovementType = "PRODUCTION_OUT"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeOpening,
		MovementTypeReceipt,
		MovementTypeIssue,
		MovementTypeAdjustIn,
		MovementTypeAdjustOut,
		MovementTypeProductionIn,
		MovementTypeProductionOut:
		return true
	}
	return false
}

// IsIncrease returns true if this movement type adds to the quantity on hand
func (t MovementType) IsIncrease() bool {
	switch t {
	case MovementTypeOpening,
		MovementTypeReceipt,
		MovementTypeAdjustIn,
		MovementTypeProductionIn:
		return true
	}
	return false
}

// IsDecrease returns true if this movement type removes from the quantity on hand
func (t MovementType) IsDecrease() bool {
	switch t {
	case MovementTypeIssue,
		MovementTypeAdjustOut,
		MovementTypeProductionOut:
		return true
	}
	return false
}

// SourceType identifies the kind of document that caused a movement
type SourceType string

const (
	// SourceTypeSale is a sales document
	SourceTypeSale SourceType = "SALE"
	// SourceTypeProductionOrder is a production order
	SourceTypeProductionOrder SourceType = "PRODUCTION_ORDER"
	// SourceTypeManual is a direct receipt or adjustment entered by a user
	SourceTypeManual SourceType = "MANUAL"
	// SourceTypeCarryForward is the cycle lock carry-forward process
	SourceTypeCarryForward SourceType = "CYCLE_CARRY_FORWARD"
)

// CostMethodMovingAverage tags ledger rows with the valuation method applied
const CostMethodMovingAverage = "moving_average"

// String returns the string representation of SourceType
func (s SourceType) String() string {
	return string(s)
}

// IsValid returns true if the source type is valid
func (s SourceType) IsValid() bool {
	switch s {
	case SourceTypeSale, SourceTypeProductionOrder, SourceTypeManual, SourceTypeCarryForward:
		return true
	}
	return false
}

// Movement is one immutable row of the stock ledger. A movement records the
// balance before and after it was applied, so the ledger alone can replay
// any balance: starting from zero and applying signed quantities in order
// must reproduce the stored balance quantity. Corrections are made with new
// adjustment movements, never by editing existing rows.
type Movement struct {
	shared.BaseEntity
	OrgID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_org_time,priority:1"`
	ProjectID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_project"`
	CycleID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_cycle"`
	BalanceID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_balance"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_product"`
	Type          MovementType    `gorm:"type:varchar(20);not null;index:idx_movement_type"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"` // always positive, direction from Type
	UnitCost      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalCost     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceBefore decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SourceType    SourceType      `gorm:"type:varchar(30);not null;index:idx_movement_source"`
	SourceID      string          `gorm:"type:varchar(50);not null;index:idx_movement_source"`
	Reference     string          `gorm:"type:varchar(100)"`
	Reason        string          `gorm:"type:varchar(255)"`
	CostMethod    string          `gorm:"type:varchar(30);not null;default:'moving_average'"`
	OperatorID    *uuid.UUID      `gorm:"type:uuid"`
	OccurredAt    time.Time       `gorm:"type:timestamptz;not null;index:idx_movement_org_time,priority:2"`
}

// TableName returns the table name for GORM
func (Movement) TableName() string {
	return "inventory_movements"
}

// NewMovement creates a new ledger row. BalanceBefore and BalanceAfter must
// be captured from the balance the movement was applied to, inside the same
// transaction.
func NewMovement(
	orgID uuid.UUID,
	balance *Balance,
	movementType MovementType,
	quantity decimal.Decimal,
	unitCost decimal.Decimal,
	balanceBefore decimal.Decimal,
	balanceAfter decimal.Decimal,
	sourceType SourceType,
	sourceID string,
) (*Movement, error) {
	if orgID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORG", "Organization ID cannot be empty")
	}
	if balance == nil || balance.ID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BALANCE", "Balance is required")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Invalid movement type")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	if !sourceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE_TYPE", "Invalid source type")
	}
	if sourceID == "" {
		return nil, shared.NewDomainError("INVALID_SOURCE_ID", "Source ID cannot be empty")
	}

	expected := balanceBefore
	if movementType.IsIncrease() {
		expected = expected.Add(quantity)
	} else {
		expected = expected.Sub(quantity)
	}
	if !expected.Equal(balanceAfter) {
		return nil, shared.NewDomainError("INVALID_BALANCE_DELTA", "Balance after does not match quantity applied to balance before")
	}

	return &Movement{
		BaseEntity:    shared.NewBaseEntity(),
		OrgID:         orgID,
		ProjectID:     balance.ProjectID,
		CycleID:       balance.CycleID,
		BalanceID:     balance.ID,
		ProductID:     balance.ProductID,
		Type:          movementType,
		Quantity:      quantity,
		UnitCost:      unitCost,
		TotalCost:     quantity.Mul(unitCost),
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		SourceType:    sourceType,
		SourceID:      sourceID,
		CostMethod:    CostMethodMovingAverage,
		OccurredAt:    time.Now(),
	}, nil
}

// WithReference sets the reference number for the movement
func (m *Movement) WithReference(reference string) *Movement {
	m.Reference = reference
	return m
}

// WithReason sets the reason for the movement
func (m *Movement) WithReason(reason string) *Movement {
	m.Reason = reason
	return m
}

// WithOperatorID sets the user who caused the movement
func (m *Movement) WithOperatorID(operatorID uuid.UUID) *Movement {
	m.OperatorID = &operatorID
	return m
}

// WithOccurredAt overrides the movement timestamp
func (m *Movement) WithOccurredAt(at time.Time) *Movement {
	m.OccurredAt = at
	return m
}

// SignedQuantity returns the quantity with sign based on movement type,
// positive for increases and negative for decreases
func (m *Movement) SignedQuantity() decimal.Decimal {
	if m.Type.IsDecrease() {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// SignedTotalCost returns the total cost with sign based on movement type
func (m *Movement) SignedTotalCost() decimal.Decimal {
	if m.Type.IsDecrease() {
		return m.TotalCost.Neg()
	}
	return m.TotalCost
}
