package planning

import (
	"time"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/planning"
)

// CreateCycleRequest is the request to open a new budget cycle for a project
type CreateCycleRequest struct {
	ProjectID uuid.UUID `json:"project_id" binding:"required"`
	Name      string    `json:"name" binding:"required,max=100"`
	StartsOn  time.Time `json:"starts_on" binding:"required" time_format:"2006-01-02"`
	EndsOn    time.Time `json:"ends_on" binding:"required" time_format:"2006-01-02"`
}

// SuccessorSpec describes the cycle to open as part of a lock. It is
// required when the cycle being locked still holds stock and no open
// successor exists yet.
type SuccessorSpec struct {
	Name     string    `json:"name" binding:"required,max=100"`
	StartsOn time.Time `json:"starts_on" binding:"required" time_format:"2006-01-02"`
	EndsOn   time.Time `json:"ends_on" binding:"required" time_format:"2006-01-02"`
}

// LockCycleRequest is the request to permanently lock a cycle
type LockCycleRequest struct {
	Successor *SuccessorSpec `json:"successor"`
}

// CycleResponse is the response representation of a budget cycle
type CycleResponse struct {
	ID              uuid.UUID  `json:"id"`
	ProjectID       uuid.UUID  `json:"project_id"`
	Name            string     `json:"name"`
	Sequence        int        `json:"sequence"`
	StartsOn        time.Time  `json:"starts_on"`
	EndsOn          time.Time  `json:"ends_on"`
	Status          string     `json:"status"`
	PreviousCycleID *uuid.UUID `json:"previous_cycle_id,omitempty"`
	LockedAt        *time.Time `json:"locked_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ToCycleResponse converts a domain cycle to its response representation
func ToCycleResponse(c *planning.BudgetCycle) CycleResponse {
	return CycleResponse{
		ID:              c.ID,
		ProjectID:       c.ProjectID,
		Name:            c.Name,
		Sequence:        c.Sequence,
		StartsOn:        c.StartsOn,
		EndsOn:          c.EndsOn,
		Status:          string(c.Status),
		PreviousCycleID: c.PreviousCycleID,
		LockedAt:        c.LockedAt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// ToCycleResponses converts a slice of cycles
func ToCycleResponses(cycles []planning.BudgetCycle) []CycleResponse {
	responses := make([]CycleResponse, len(cycles))
	for i := range cycles {
		responses[i] = ToCycleResponse(&cycles[i])
	}
	return responses
}

// LockCycleResponse reports the outcome of a cycle lock
type LockCycleResponse struct {
	LockedCycle     CycleResponse  `json:"locked_cycle"`
	SuccessorCycle  *CycleResponse `json:"successor_cycle,omitempty"`
	CarriedBalances int            `json:"carried_balances"`
}
