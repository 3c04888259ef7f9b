package planning

import (
	"github.com/ledgerline/backend/internal/domain/shared"
)

// Event types for the planning context
const (
	EventTypeCycleOpened = "planning.cycle.opened"
	EventTypeCycleLocked = "planning.cycle.locked"
)

// CycleOpenedEvent is emitted when a new budget cycle is opened
type CycleOpenedEvent struct {
	shared.BaseDomainEvent
	ProjectID string `json:"project_id"`
	Sequence  int    `json:"sequence"`
}

// NewCycleOpenedEvent creates a new CycleOpenedEvent
func NewCycleOpenedEvent(c *BudgetCycle) *CycleOpenedEvent {
	return &CycleOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCycleOpened, "BudgetCycle", c.ID, c.OrgID),
		ProjectID:       c.ProjectID.String(),
		Sequence:        c.Sequence,
	}
}

// CycleLockedEvent is emitted when a budget cycle is permanently locked
type CycleLockedEvent struct {
	shared.BaseDomainEvent
	ProjectID string `json:"project_id"`
	Sequence  int    `json:"sequence"`
}

// NewCycleLockedEvent creates a new CycleLockedEvent
func NewCycleLockedEvent(c *BudgetCycle) *CycleLockedEvent {
	return &CycleLockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCycleLocked, "BudgetCycle", c.ID, c.OrgID),
		ProjectID:       c.ProjectID.String(),
		Sequence:        c.Sequence,
	}
}
