package org

import (
	"context"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/org"
	"github.com/ledgerline/backend/internal/domain/shared"
)

// ProjectService handles project lifecycle operations within an organization
type ProjectService struct {
	projectRepo    org.ProjectRepository
	orgRepo        org.OrganizationRepository
	eventPublisher shared.EventPublisher
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo org.ProjectRepository, orgRepo org.OrganizationRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		orgRepo:     orgRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProjectService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new project. The code must be unique within the organization.
func (s *ProjectService) Create(ctx context.Context, orgID uuid.UUID, req CreateProjectRequest) (*ProjectResponse, error) {
	organization, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if !organization.IsActive() {
		return nil, shared.NewDomainError("ORG_SUSPENDED", "Organization is suspended")
	}

	exists, err := s.projectRepo.ExistsByCode(ctx, orgID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("CODE_TAKEN", "A project with this code already exists")
	}

	project, err := org.NewProject(orgID, req.Name, req.Code, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.projectRepo.Save(ctx, project); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, project.GetDomainEvents()...)
	project.ClearDomainEvents()

	response := ToProjectResponse(project)
	return &response, nil
}

// GetByID retrieves a project by its ID
func (s *ProjectService) GetByID(ctx context.Context, orgID, id uuid.UUID) (*ProjectResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	response := ToProjectResponse(project)
	return &response, nil
}

// List retrieves the projects of an organization
func (s *ProjectService) List(ctx context.Context, orgID uuid.UUID, filter ProjectListFilter) ([]ProjectResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if filter.Status != "" {
		domainFilter.Filters = map[string]interface{}{"status": filter.Status}
	}
	domainFilter.Normalize()

	projects, err := s.projectRepo.FindAllForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.projectRepo.CountForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToProjectResponses(projects), total, nil
}

// Update changes the mutable fields of a project
func (s *ProjectService) Update(ctx context.Context, orgID, id uuid.UUID, req UpdateProjectRequest) (*ProjectResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if err := project.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.projectRepo.Save(ctx, project); err != nil {
		return nil, err
	}
	response := ToProjectResponse(project)
	return &response, nil
}

// Archive makes a project read-only
func (s *ProjectService) Archive(ctx context.Context, orgID, id uuid.UUID) (*ProjectResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if err := project.Archive(); err != nil {
		return nil, err
	}
	if err := s.projectRepo.Save(ctx, project); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, project.GetDomainEvents()...)
	project.ClearDomainEvents()

	response := ToProjectResponse(project)
	return &response, nil
}

func (s *ProjectService) publishEvents(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
