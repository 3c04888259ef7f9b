package org

import (
	"context"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/org"
	"github.com/ledgerline/backend/internal/domain/shared"
	"github.com/ledgerline/backend/internal/domain/shared/valueobject"
)

// OrganizationService handles organization lifecycle operations
type OrganizationService struct {
	orgRepo        org.OrganizationRepository
	eventPublisher shared.EventPublisher
}

// NewOrganizationService creates a new OrganizationService
func NewOrganizationService(orgRepo org.OrganizationRepository) *OrganizationService {
	return &OrganizationService{orgRepo: orgRepo}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OrganizationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a new organization. The slug must be globally unique.
func (s *OrganizationService) Create(ctx context.Context, req CreateOrganizationRequest) (*OrganizationResponse, error) {
	exists, err := s.orgRepo.ExistsBySlug(ctx, req.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("SLUG_TAKEN", "An organization with this slug already exists")
	}

	organization, err := org.NewOrganization(req.Name, req.Slug, valueobject.Currency(req.BaseCurrency))
	if err != nil {
		return nil, err
	}
	if err := s.orgRepo.Save(ctx, organization); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, organization.GetDomainEvents()...)
	organization.ClearDomainEvents()

	response := ToOrganizationResponse(organization)
	return &response, nil
}

// GetByID retrieves an organization by its ID
func (s *OrganizationService) GetByID(ctx context.Context, id uuid.UUID) (*OrganizationResponse, error) {
	organization, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrganizationResponse(organization)
	return &response, nil
}

// GetBySlug retrieves an organization by its slug
func (s *OrganizationService) GetBySlug(ctx context.Context, slug string) (*OrganizationResponse, error) {
	organization, err := s.orgRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	response := ToOrganizationResponse(organization)
	return &response, nil
}

// List retrieves organizations with pagination
func (s *OrganizationService) List(ctx context.Context, filter OrganizationListFilter) ([]OrganizationResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	domainFilter.Normalize()

	organizations, err := s.orgRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orgRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToOrganizationResponses(organizations), total, nil
}

// Update renames an organization
func (s *OrganizationService) Update(ctx context.Context, id uuid.UUID, req UpdateOrganizationRequest) (*OrganizationResponse, error) {
	organization, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := organization.Rename(req.Name); err != nil {
		return nil, err
	}
	if err := s.orgRepo.Save(ctx, organization); err != nil {
		return nil, err
	}
	response := ToOrganizationResponse(organization)
	return &response, nil
}

// Suspend blocks all write operations for an organization
func (s *OrganizationService) Suspend(ctx context.Context, id uuid.UUID) (*OrganizationResponse, error) {
	organization, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := organization.Suspend(); err != nil {
		return nil, err
	}
	if err := s.orgRepo.Save(ctx, organization); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, organization.GetDomainEvents()...)
	organization.ClearDomainEvents()

	response := ToOrganizationResponse(organization)
	return &response, nil
}

// Activate re-enables a suspended organization
func (s *OrganizationService) Activate(ctx context.Context, id uuid.UUID) (*OrganizationResponse, error) {
	organization, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := organization.Activate(); err != nil {
		return nil, err
	}
	if err := s.orgRepo.Save(ctx, organization); err != nil {
		return nil, err
	}
	response := ToOrganizationResponse(organization)
	return &response, nil
}

func (s *OrganizationService) publishEvents(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
