package inventory

import (
	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the inventory context
const (
	EventTypeBalanceCostChanged       = "inventory.balance.cost_changed"
	EventTypeMovementRecorded         = "inventory.movement.recorded"
	EventTypeProductionOrderCreated   = "inventory.production_order.created"
	EventTypeProductionOrderCompleted = "inventory.production_order.completed"
	EventTypeCycleCarriedForward      = "inventory.cycle.carried_forward"
)

// BalanceCostChangedEvent is emitted when a balance's weighted average cost moves
type BalanceCostChangedEvent struct {
	shared.BaseDomainEvent
	ProductID string `json:"product_id"`
	OldCost   string `json:"old_cost"`
	NewCost   string `json:"new_cost"`
}

// NewBalanceCostChangedEvent creates a new BalanceCostChangedEvent
func NewBalanceCostChangedEvent(b *Balance, oldCost, newCost decimal.Decimal) *BalanceCostChangedEvent {
	return &BalanceCostChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBalanceCostChanged, "Balance", b.ID, b.OrgID),
		ProductID:       b.ProductID.String(),
		OldCost:         oldCost.String(),
		NewCost:         newCost.String(),
	}
}

// MovementRecordedEvent is emitted when a ledger row is written
type MovementRecordedEvent struct {
	shared.BaseDomainEvent
	MovementType string `json:"movement_type"`
	ProductID    string `json:"product_id"`
	Quantity     string `json:"quantity"`
	SourceType   string `json:"source_type"`
	SourceID     string `json:"source_id"`
}

// NewMovementRecordedEvent creates a new MovementRecordedEvent
func NewMovementRecordedEvent(m *Movement) *MovementRecordedEvent {
	return &MovementRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMovementRecorded, "Movement", m.ID, m.OrgID),
		MovementType:    m.Type.String(),
		ProductID:       m.ProductID.String(),
		Quantity:        m.Quantity.String(),
		SourceType:      m.SourceType.String(),
		SourceID:        m.SourceID,
	}
}

// ProductionOrderCreatedEvent is emitted when a production order is drafted
type ProductionOrderCreatedEvent struct {
	shared.BaseDomainEvent
	Number         string `json:"number"`
	ProductID      string `json:"product_id"`
	OutputQuantity string `json:"output_quantity"`
}

// NewProductionOrderCreatedEvent creates a new ProductionOrderCreatedEvent
func NewProductionOrderCreatedEvent(po *ProductionOrder) *ProductionOrderCreatedEvent {
	return &ProductionOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductionOrderCreated, "ProductionOrder", po.ID, po.OrgID),
		Number:          po.Number,
		ProductID:       po.ProductID.String(),
		OutputQuantity:  po.OutputQuantity.String(),
	}
}

// ProductionOrderCompletedEvent is emitted when a production order is executed
type ProductionOrderCompletedEvent struct {
	shared.BaseDomainEvent
	Number    string `json:"number"`
	ProductID string `json:"product_id"`
	UnitCost  string `json:"unit_cost"`
	TotalCost string `json:"total_cost"`
}

// NewProductionOrderCompletedEvent creates a new ProductionOrderCompletedEvent
func NewProductionOrderCompletedEvent(po *ProductionOrder) *ProductionOrderCompletedEvent {
	return &ProductionOrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductionOrderCompleted, "ProductionOrder", po.ID, po.OrgID),
		Number:          po.Number,
		ProductID:       po.ProductID.String(),
		UnitCost:        po.UnitCost.String(),
		TotalCost:       po.TotalCost.String(),
	}
}

// CycleCarriedForwardEvent is emitted after a locked cycle's balances have
// been seeded into its successor
type CycleCarriedForwardEvent struct {
	shared.BaseDomainEvent
	SuccessorCycleID string `json:"successor_cycle_id"`
	BalancesCarried  int    `json:"balances_carried"`
}

// NewCycleCarriedForwardEvent creates a new CycleCarriedForwardEvent
func NewCycleCarriedForwardEvent(orgID, lockedCycleID, successorCycleID uuid.UUID, carried int) *CycleCarriedForwardEvent {
	return &CycleCarriedForwardEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeCycleCarriedForward, "BudgetCycle", lockedCycleID, orgID),
		SuccessorCycleID: successorCycleID.String(),
		BalancesCarried:  carried,
	}
}
