package planning

import (
	"context"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/shared"
)

// BudgetCycleRepository defines the interface for budget cycle persistence
type BudgetCycleRepository interface {
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*BudgetCycle, error)
	// FindByIDForShare reads a cycle under a shared row lock. Movement
	// writers hold it until commit so a concurrent Lock cannot slip in
	// between the open-cycle check and the movement insert.
	FindByIDForShare(ctx context.Context, orgID, id uuid.UUID) (*BudgetCycle, error)
	// FindByIDForUpdate reads a cycle under an exclusive row lock. Locking a
	// cycle takes it so every in-flight movement writer has committed before
	// the closing balances are snapshotted.
	FindByIDForUpdate(ctx context.Context, orgID, id uuid.UUID) (*BudgetCycle, error)
	FindOpenForProject(ctx context.Context, orgID, projectID uuid.UUID) (*BudgetCycle, error)
	FindBySequence(ctx context.Context, orgID, projectID uuid.UUID, sequence int) (*BudgetCycle, error)
	FindSuccessor(ctx context.Context, orgID, previousCycleID uuid.UUID) (*BudgetCycle, error)
	FindAllForProject(ctx context.Context, orgID, projectID uuid.UUID, filter shared.Filter) ([]BudgetCycle, error)
	Save(ctx context.Context, c *BudgetCycle) error
	CountForProject(ctx context.Context, orgID, projectID uuid.UUID) (int64, error)
}
