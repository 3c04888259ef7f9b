package planning

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/org"
	"github.com/ledgerline/backend/internal/domain/planning"
	"github.com/ledgerline/backend/internal/domain/shared"
)

// CycleService handles budget cycle creation and queries. Locking, which has
// to carry balances forward atomically, lives in CycleCloseService.
type CycleService struct {
	cycleRepo      planning.BudgetCycleRepository
	projectRepo    org.ProjectRepository
	eventPublisher shared.EventPublisher
}

// NewCycleService creates a new CycleService
func NewCycleService(cycleRepo planning.BudgetCycleRepository, projectRepo org.ProjectRepository) *CycleService {
	return &CycleService{
		cycleRepo:   cycleRepo,
		projectRepo: projectRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CycleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens a new cycle for a project. A project has at most one open
// cycle, so creation is allowed only when every earlier cycle is locked or
// none exists. The sequence is assigned as previous sequence + 1.
func (s *CycleService) Create(ctx context.Context, orgID uuid.UUID, req CreateCycleRequest) (*CycleResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, orgID, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if !project.IsActive() {
		return nil, shared.NewDomainError("PROJECT_ARCHIVED", "Cannot open a cycle on an archived project")
	}

	open, err := s.cycleRepo.FindOpenForProject(ctx, orgID, req.ProjectID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if open != nil {
		return nil, shared.NewDomainError("CYCLE_ALREADY_OPEN", "Project already has an open cycle")
	}

	count, err := s.cycleRepo.CountForProject(ctx, orgID, req.ProjectID)
	if err != nil {
		return nil, err
	}

	sequence := int(count) + 1
	var previousID *uuid.UUID
	if sequence > 1 {
		previous, err := s.cycleRepo.FindBySequence(ctx, orgID, req.ProjectID, sequence-1)
		if err != nil {
			return nil, err
		}
		previousID = &previous.ID
	}

	cycle, err := planning.NewBudgetCycle(orgID, req.ProjectID, req.Name, sequence, req.StartsOn, req.EndsOn, previousID)
	if err != nil {
		return nil, err
	}
	if err := s.cycleRepo.Save(ctx, cycle); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, cycle.GetDomainEvents()...)
	cycle.ClearDomainEvents()

	response := ToCycleResponse(cycle)
	return &response, nil
}

// GetByID retrieves a cycle by its ID
func (s *CycleService) GetByID(ctx context.Context, orgID, cycleID uuid.UUID) (*CycleResponse, error) {
	cycle, err := s.cycleRepo.FindByID(ctx, orgID, cycleID)
	if err != nil {
		return nil, err
	}
	response := ToCycleResponse(cycle)
	return &response, nil
}

// GetOpenForProject retrieves the currently open cycle of a project
func (s *CycleService) GetOpenForProject(ctx context.Context, orgID, projectID uuid.UUID) (*CycleResponse, error) {
	cycle, err := s.cycleRepo.FindOpenForProject(ctx, orgID, projectID)
	if err != nil {
		return nil, err
	}
	response := ToCycleResponse(cycle)
	return &response, nil
}

// ListForProject retrieves all cycles of a project, newest sequence first
func (s *CycleService) ListForProject(ctx context.Context, orgID, projectID uuid.UUID, page, pageSize int) ([]CycleResponse, int64, error) {
	filter := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  "sequence",
		OrderDir: "desc",
	}
	filter.Normalize()

	cycles, err := s.cycleRepo.FindAllForProject(ctx, orgID, projectID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.cycleRepo.CountForProject(ctx, orgID, projectID)
	if err != nil {
		return nil, 0, err
	}
	return ToCycleResponses(cycles), total, nil
}

func (s *CycleService) publishEvents(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
