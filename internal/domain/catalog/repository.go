package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence.
// FindByID and FindBySKU load the bill of materials with the product.
type ProductRepository interface {
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*Product, error)
	FindBySKU(ctx context.Context, orgID uuid.UUID, sku string) (*Product, error)
	FindByIDs(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]Product, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]Product, error)
	Save(ctx context.Context, p *Product) error
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsBySKU(ctx context.Context, orgID uuid.UUID, sku string) (bool, error)
}
