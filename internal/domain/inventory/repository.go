package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BalanceRepository defines the interface for balance persistence
type BalanceRepository interface {
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*Balance, error)
	// FindByScope returns the balance for a product within a cycle, or nil
	// if none exists yet
	FindByScope(ctx context.Context, orgID, projectID, cycleID, productID uuid.UUID) (*Balance, error)
	// FindByScopeForUpdate locks the balance row for the duration of the
	// surrounding transaction
	FindByScopeForUpdate(ctx context.Context, orgID, projectID, cycleID, productID uuid.UUID) (*Balance, error)
	FindAllForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter shared.Filter) ([]Balance, error)
	// FindNonEmptyForCycle returns every balance in the cycle with a
	// positive quantity, used by carry-forward
	FindNonEmptyForCycle(ctx context.Context, orgID, cycleID uuid.UUID) ([]Balance, error)
	Save(ctx context.Context, b *Balance) error
	CountForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter shared.Filter) (int64, error)
	// SumValueForCycle returns the total inventory value of a cycle,
	// sum(quantity * unit_cost) over its balances
	SumValueForCycle(ctx context.Context, orgID, cycleID uuid.UUID) (decimal.Decimal, error)
}

// MovementRepository defines the interface for the append-only movement
// ledger. Movements are never updated or deleted.
type MovementRepository interface {
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*Movement, error)
	FindAllForBalance(ctx context.Context, orgID, balanceID uuid.UUID, filter shared.Filter) ([]Movement, error)
	FindAllForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter shared.Filter) ([]Movement, error)
	Save(ctx context.Context, m *Movement) error
	SaveAll(ctx context.Context, ms []*Movement) error
	CountForBalance(ctx context.Context, orgID, balanceID uuid.UUID) (int64, error)
	CountForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter shared.Filter) (int64, error)
}

// ProductionOrderRepository defines the interface for production order persistence
type ProductionOrderRepository interface {
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*ProductionOrder, error)
	FindByNumber(ctx context.Context, orgID uuid.UUID, number string) (*ProductionOrder, error)
	FindAllForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter shared.Filter) ([]ProductionOrder, error)
	Save(ctx context.Context, po *ProductionOrder) error
	CountForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter shared.Filter) (int64, error)
	CountForOrg(ctx context.Context, orgID uuid.UUID) (int64, error)
}
