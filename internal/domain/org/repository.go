package org

import (
	"context"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/shared"
)

// OrganizationRepository defines the interface for organization persistence
type OrganizationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	FindBySlug(ctx context.Context, slug string) (*Organization, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Organization, error)
	Save(ctx context.Context, o *Organization) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

// ProjectRepository defines the interface for project persistence
type ProjectRepository interface {
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*Project, error)
	FindByCode(ctx context.Context, orgID uuid.UUID, code string) (*Project, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]Project, error)
	Save(ctx context.Context, p *Project) error
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, orgID uuid.UUID, code string) (bool, error)
}
