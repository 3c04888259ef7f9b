package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/shared"
)

// SaleRepository defines the interface for sale persistence.
// FindByID loads the sale lines with the sale.
type SaleRepository interface {
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*Sale, error)
	FindByNumber(ctx context.Context, orgID uuid.UUID, number string) (*Sale, error)
	FindAllForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter shared.Filter) ([]Sale, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]Sale, error)
	Save(ctx context.Context, s *Sale) error
	CountForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter shared.Filter) (int64, error)
	CountForOrg(ctx context.Context, orgID uuid.UUID) (int64, error)
}
