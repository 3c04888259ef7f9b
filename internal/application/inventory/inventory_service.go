package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/inventory"
	"github.com/ledgerline/backend/internal/domain/planning"
	"github.com/ledgerline/backend/internal/domain/shared"
	"github.com/ledgerline/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InventoryService handles stock mutations and ledger queries. Every
// mutation runs inside a transaction scope: the balance update and its
// ledger row are one atomic unit, and the target cycle must be open.
type InventoryService struct {
	scope          TransactionScope
	balanceRepo    inventory.BalanceRepository
	movementRepo   inventory.MovementRepository
	eventPublisher shared.EventPublisher
}

// NewInventoryService creates a new InventoryService. The standalone
// repositories serve read paths; writes go through the scope.
func NewInventoryService(
	scope TransactionScope,
	balanceRepo inventory.BalanceRepository,
	movementRepo inventory.MovementRepository,
) *InventoryService {
	return &InventoryService{
		scope:        scope,
		balanceRepo:  balanceRepo,
		movementRepo: movementRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InventoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *InventoryService) publishEvents(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

// requireOpenCycle loads a cycle and verifies it belongs to the project and
// still accepts writes. The cycle row is share-locked for the rest of the
// transaction, so a concurrent lock of the cycle waits until this writer
// commits and this writer's movement lands inside the still-open cycle.
func requireOpenCycle(ctx context.Context, cycleRepo planning.BudgetCycleRepository, orgID, projectID, cycleID uuid.UUID) (*planning.BudgetCycle, error) {
	cycle, err := cycleRepo.FindByIDForShare(ctx, orgID, cycleID)
	if err != nil {
		return nil, err
	}
	if cycle.ProjectID != projectID {
		return nil, shared.NewDomainError("CYCLE_PROJECT_MISMATCH", "Cycle does not belong to the given project")
	}
	if cycle.IsLocked() {
		return nil, shared.ErrCycleLocked
	}
	return cycle, nil
}

// getOrCreateBalance returns the locked balance for the scope, creating an
// empty one on first use of a product in a cycle
func getOrCreateBalance(ctx context.Context, repo inventory.BalanceRepository, orgID, projectID, cycleID, productID uuid.UUID) (*inventory.Balance, error) {
	balance, err := repo.FindByScopeForUpdate(ctx, orgID, projectID, cycleID, productID)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return inventory.NewBalance(orgID, projectID, cycleID, productID)
}

// ReceiveStock books purchased stock into a cycle and reprices the balance
// to the new weighted average
func (s *InventoryService) ReceiveStock(ctx context.Context, orgID uuid.UUID, req ReceiveStockRequest) (*BalanceResponse, error) {
	var response BalanceResponse
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := requireOpenCycle(ctx, repos.CycleRepo(), orgID, req.ProjectID, req.CycleID); err != nil {
			return err
		}

		balance, err := getOrCreateBalance(ctx, repos.BalanceRepo(), orgID, req.ProjectID, req.CycleID, req.ProductID)
		if err != nil {
			return err
		}

		balanceBefore := balance.Quantity
		unitCost, err := valueobject.NewMoney(req.UnitCost, valueobject.DefaultCurrency)
		if err != nil {
			return shared.NewDomainError("INVALID_COST", "Invalid unit cost")
		}
		if err := balance.Increase(req.Quantity, unitCost); err != nil {
			return err
		}
		if err := repos.BalanceRepo().Save(ctx, balance); err != nil {
			return err
		}

		movement, err := inventory.NewMovement(
			orgID, balance, inventory.MovementTypeReceipt,
			req.Quantity, req.UnitCost,
			balanceBefore, balance.Quantity,
			inventory.SourceTypeManual, balance.ID.String(),
		)
		if err != nil {
			return err
		}
		if req.Reference != "" {
			movement.WithReference(req.Reference)
		}
		if req.Reason != "" {
			movement.WithReason(req.Reason)
		}
		if req.OperatorID != nil {
			movement.WithOperatorID(*req.OperatorID)
		}
		if err := repos.MovementRepo().Save(ctx, movement); err != nil {
			return err
		}

		events = append(events, balance.GetDomainEvents()...)
		events = append(events, inventory.NewMovementRecordedEvent(movement))
		balance.ClearDomainEvents()
		response = ToBalanceResponse(balance)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events...)
	return &response, nil
}

// IssueStock issues stock out of a cycle at the current weighted average cost
func (s *InventoryService) IssueStock(ctx context.Context, orgID uuid.UUID, req IssueStockRequest) (*BalanceResponse, error) {
	var response BalanceResponse
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := requireOpenCycle(ctx, repos.CycleRepo(), orgID, req.ProjectID, req.CycleID); err != nil {
			return err
		}

		balance, err := repos.BalanceRepo().FindByScopeForUpdate(ctx, orgID, req.ProjectID, req.CycleID, req.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.ErrInsufficientStock
			}
			return err
		}

		balanceBefore := balance.Quantity
		costAtIssue, err := balance.Decrease(req.Quantity)
		if err != nil {
			return err
		}
		if err := repos.BalanceRepo().Save(ctx, balance); err != nil {
			return err
		}

		movement, err := inventory.NewMovement(
			orgID, balance, inventory.MovementTypeIssue,
			req.Quantity, costAtIssue,
			balanceBefore, balance.Quantity,
			inventory.SourceTypeManual, balance.ID.String(),
		)
		if err != nil {
			return err
		}
		if req.Reference != "" {
			movement.WithReference(req.Reference)
		}
		if req.Reason != "" {
			movement.WithReason(req.Reason)
		}
		if req.OperatorID != nil {
			movement.WithOperatorID(*req.OperatorID)
		}
		if err := repos.MovementRepo().Save(ctx, movement); err != nil {
			return err
		}

		events = append(events, inventory.NewMovementRecordedEvent(movement))
		response = ToBalanceResponse(balance)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events...)
	return &response, nil
}

// AdjustStock applies a manual correction. A positive delta is booked as
// ADJUST_IN repricing the average with the supplied unit cost, or at the
// current average when none is given; a negative delta is booked as
// ADJUST_OUT at the current average and can never push the balance negative.
func (s *InventoryService) AdjustStock(ctx context.Context, orgID uuid.UUID, req AdjustStockRequest) (*BalanceResponse, error) {
	if req.Delta.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment delta cannot be zero")
	}

	var response BalanceResponse
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := requireOpenCycle(ctx, repos.CycleRepo(), orgID, req.ProjectID, req.CycleID); err != nil {
			return err
		}

		balance, err := getOrCreateBalance(ctx, repos.BalanceRepo(), orgID, req.ProjectID, req.CycleID, req.ProductID)
		if err != nil {
			return err
		}

		balanceBefore := balance.Quantity
		quantity := req.Delta.Abs()
		var movementType inventory.MovementType
		var movementCost decimal.Decimal

		if req.Delta.IsPositive() {
			movementType = inventory.MovementTypeAdjustIn
			// nil means reprice at the current average; an explicit zero
			// is a valid cost for found or donated stock
			if req.UnitCost != nil {
				movementCost = *req.UnitCost
			} else {
				movementCost = balance.UnitCost
			}
			unitCost, err := valueobject.NewMoney(movementCost, valueobject.DefaultCurrency)
			if err != nil {
				return shared.NewDomainError("INVALID_COST", "Invalid unit cost")
			}
			if err := balance.Increase(quantity, unitCost); err != nil {
				return err
			}
		} else {
			movementType = inventory.MovementTypeAdjustOut
			costAtIssue, err := balance.Decrease(quantity)
			if err != nil {
				return err
			}
			movementCost = costAtIssue
		}

		if err := repos.BalanceRepo().Save(ctx, balance); err != nil {
			return err
		}

		movement, err := inventory.NewMovement(
			orgID, balance, movementType,
			quantity, movementCost,
			balanceBefore, balance.Quantity,
			inventory.SourceTypeManual, balance.ID.String(),
		)
		if err != nil {
			return err
		}
		movement.WithReason(req.Reason)
		if req.OperatorID != nil {
			movement.WithOperatorID(*req.OperatorID)
		}
		if err := repos.MovementRepo().Save(ctx, movement); err != nil {
			return err
		}

		events = append(events, balance.GetDomainEvents()...)
		events = append(events, inventory.NewMovementRecordedEvent(movement))
		balance.ClearDomainEvents()
		response = ToBalanceResponse(balance)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events...)
	return &response, nil
}

// GetBalance retrieves the balance of one product within a cycle
func (s *InventoryService) GetBalance(ctx context.Context, orgID, projectID, cycleID, productID uuid.UUID) (*BalanceResponse, error) {
	balance, err := s.balanceRepo.FindByScope(ctx, orgID, projectID, cycleID, productID)
	if err != nil {
		return nil, err
	}
	response := ToBalanceResponse(balance)
	return &response, nil
}

// ListBalances retrieves the balances of a cycle with filtering and pagination
func (s *InventoryService) ListBalances(ctx context.Context, orgID, cycleID uuid.UUID, filter BalanceListFilter) ([]BalanceResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	domainFilter.Normalize()
	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}
	if filter.NonEmpty {
		domainFilter.Filters["non_empty"] = true
	}

	balances, err := s.balanceRepo.FindAllForCycle(ctx, orgID, cycleID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.balanceRepo.CountForCycle(ctx, orgID, cycleID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToBalanceResponses(balances), total, nil
}

// ListMovements retrieves ledger rows for a cycle with filtering and pagination
func (s *InventoryService) ListMovements(ctx context.Context, orgID, cycleID uuid.UUID, filter MovementListFilter) ([]MovementResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "occurred_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
	domainFilter.Normalize()
	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}
	if filter.Type != "" {
		if !inventory.MovementType(filter.Type).IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Invalid movement type filter")
		}
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.SourceType != "" {
		domainFilter.Filters["source_type"] = filter.SourceType
	}
	if filter.OccurredFrom != nil {
		domainFilter.Filters["occurred_from"] = *filter.OccurredFrom
	}
	if filter.OccurredTo != nil {
		domainFilter.Filters["occurred_to"] = *filter.OccurredTo
	}

	movements, err := s.movementRepo.FindAllForCycle(ctx, orgID, cycleID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.movementRepo.CountForCycle(ctx, orgID, cycleID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToMovementResponses(movements), total, nil
}

// ListBalanceMovements retrieves the ledger of a single balance, oldest
// first, so the quantity can be replayed row by row
func (s *InventoryService) ListBalanceMovements(ctx context.Context, orgID, balanceID uuid.UUID, page, pageSize int) ([]MovementResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  "occurred_at",
		OrderDir: "asc",
	}
	domainFilter.Normalize()

	movements, err := s.movementRepo.FindAllForBalance(ctx, orgID, balanceID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.movementRepo.CountForBalance(ctx, orgID, balanceID)
	if err != nil {
		return nil, 0, err
	}
	return ToMovementResponses(movements), total, nil
}

// CycleValuation returns the total inventory value held in a cycle
func (s *InventoryService) CycleValuation(ctx context.Context, orgID, cycleID uuid.UUID) (*CycleValuationResponse, error) {
	value, err := s.balanceRepo.SumValueForCycle(ctx, orgID, cycleID)
	if err != nil {
		return nil, err
	}
	count, err := s.balanceRepo.CountForCycle(ctx, orgID, cycleID, shared.Filter{})
	if err != nil {
		return nil, err
	}
	return &CycleValuationResponse{
		CycleID:      cycleID,
		TotalValue:   value,
		BalanceCount: count,
	}, nil
}
