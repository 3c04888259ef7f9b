package planning

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/shared"
)

// CycleStatus represents the lifecycle state of a budget cycle
type CycleStatus string

const (
	// CycleStatusOpen means the cycle accepts movements and documents
	CycleStatusOpen CycleStatus = "OPEN"
	// CycleStatusLocked means the cycle is permanently closed to writes.
	// Locking is one-way; a locked cycle never reopens.
	CycleStatusLocked CycleStatus = "LOCKED"
)

// BudgetCycle is a bookkeeping period within a project. Inventory balances,
// sales and expenses are recorded against exactly one cycle. At most one
// cycle per project is OPEN at a time, and locking a cycle carries its
// closing balances forward into the successor.
type BudgetCycle struct {
	shared.OrgAggregateRoot
	ProjectID       uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_cycle_project_seq,priority:1"`
	Name            string      `gorm:"type:varchar(100);not null"`
	Sequence        int         `gorm:"not null;uniqueIndex:idx_cycle_project_seq,priority:2"`
	StartsOn        time.Time   `gorm:"type:date;not null"`
	EndsOn          time.Time   `gorm:"type:date;not null"`
	Status          CycleStatus `gorm:"type:varchar(20);not null;default:'OPEN'"`
	PreviousCycleID *uuid.UUID  `gorm:"type:uuid"`
	LockedAt        *time.Time  `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (BudgetCycle) TableName() string {
	return "budget_cycles"
}

// NewBudgetCycle creates a new open cycle. The sequence must be assigned by
// the caller as previous sequence + 1; the first cycle of a project has
// sequence 1 and no previous cycle.
func NewBudgetCycle(orgID, projectID uuid.UUID, name string, sequence int, startsOn, endsOn time.Time, previousCycleID *uuid.UUID) (*BudgetCycle, error) {
	if orgID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORG", "Organization ID cannot be empty")
	}
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Cycle name cannot be empty")
	}
	if sequence < 1 {
		return nil, shared.NewDomainError("INVALID_SEQUENCE", "Cycle sequence must be positive")
	}
	if sequence == 1 && previousCycleID != nil {
		return nil, shared.NewDomainError("INVALID_SEQUENCE", "First cycle cannot have a previous cycle")
	}
	if sequence > 1 && previousCycleID == nil {
		return nil, shared.NewDomainError("INVALID_SEQUENCE", "Non-initial cycle requires a previous cycle")
	}
	if !endsOn.After(startsOn) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "Cycle end date must be after start date")
	}

	c := &BudgetCycle{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		ProjectID:        projectID,
		Name:             name,
		Sequence:         sequence,
		StartsOn:         startsOn,
		EndsOn:           endsOn,
		Status:           CycleStatusOpen,
		PreviousCycleID:  previousCycleID,
	}
	c.AddDomainEvent(NewCycleOpenedEvent(c))
	return c, nil
}

// Lock permanently closes the cycle to new movements and documents.
// Carry-forward of balances is orchestrated by the application layer in the
// same transaction as this state change.
func (c *BudgetCycle) Lock() error {
	if c.Status == CycleStatusLocked {
		return shared.ErrCycleLocked
	}
	now := time.Now()
	c.Status = CycleStatusLocked
	c.LockedAt = &now
	c.Touch()
	c.IncrementVersion()
	c.AddDomainEvent(NewCycleLockedEvent(c))
	return nil
}

// IsOpen returns true if the cycle accepts writes
func (c *BudgetCycle) IsOpen() bool {
	return c.Status == CycleStatusOpen
}

// IsLocked returns true if the cycle is permanently closed
func (c *BudgetCycle) IsLocked() bool {
	return c.Status == CycleStatusLocked
}

// Contains reports whether the given date falls inside the cycle period.
// The range is inclusive on both ends; only the calendar date matters.
func (c *BudgetCycle) Contains(date time.Time) bool {
	d := date.Truncate(24 * time.Hour)
	start := c.StartsOn.Truncate(24 * time.Hour)
	end := c.EndsOn.Truncate(24 * time.Hour)
	return !d.Before(start) && !d.After(end)
}
