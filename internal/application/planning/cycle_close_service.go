package planning

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/inventory"
	"github.com/ledgerline/backend/internal/domain/planning"
	"github.com/ledgerline/backend/internal/domain/shared"
	"github.com/ledgerline/backend/internal/domain/shared/valueobject"
)

// CycleCloseService locks budget cycles. Locking is one-way and carries
// the closing stock into the successor cycle in the same transaction: each
// non-empty balance of the locked cycle becomes an opening position in the
// successor, seeded at the carried quantity and weighted average cost and
// recorded as an OPENING ledger row. A cycle that still holds stock cannot
// be locked without a successor to carry into.
type CycleCloseService struct {
	scope          TransactionScope
	eventPublisher shared.EventPublisher
}

// NewCycleCloseService creates a new CycleCloseService
func NewCycleCloseService(scope TransactionScope) *CycleCloseService {
	return &CycleCloseService{scope: scope}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CycleCloseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Lock permanently closes a cycle. The successor receiving the carried
// balances is resolved in order: an already existing open successor cycle,
// or a new cycle created from req.Successor with sequence + 1. When the
// cycle holds no stock neither is required and the lock stands alone.
func (s *CycleCloseService) Lock(ctx context.Context, orgID, cycleID uuid.UUID, req LockCycleRequest) (*LockCycleResponse, error) {
	var response LockCycleResponse
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		// Exclusive lock on the cycle row: waits out every movement writer
		// holding a share lock, and blocks new ones until the lock commits,
		// so the closing balances below are the final ones.
		cycle, err := repos.CycleRepo().FindByIDForUpdate(ctx, orgID, cycleID)
		if err != nil {
			return err
		}
		if cycle.IsLocked() {
			return shared.ErrCycleLocked
		}

		carried, err := repos.BalanceRepo().FindNonEmptyForCycle(ctx, orgID, cycle.ID)
		if err != nil {
			return err
		}

		successor, err := repos.CycleRepo().FindSuccessor(ctx, orgID, cycle.ID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if successor != nil && successor.IsLocked() {
			return shared.NewDomainError("SUCCESSOR_LOCKED", "Successor cycle is already locked")
		}
		if len(carried) > 0 && successor == nil && req.Successor == nil {
			return shared.NewDomainError("NO_SUCCESSOR_CYCLE", "Cycle still holds stock and has no successor to carry it into")
		}

		if err := cycle.Lock(); err != nil {
			return err
		}
		if err := repos.CycleRepo().Save(ctx, cycle); err != nil {
			return err
		}
		events = append(events, cycle.GetDomainEvents()...)
		cycle.ClearDomainEvents()

		if successor == nil && req.Successor != nil {
			successor, err = planning.NewBudgetCycle(
				orgID, cycle.ProjectID,
				req.Successor.Name, cycle.Sequence+1,
				req.Successor.StartsOn, req.Successor.EndsOn,
				&cycle.ID,
			)
			if err != nil {
				return err
			}
			if err := repos.CycleRepo().Save(ctx, successor); err != nil {
				return err
			}
			events = append(events, successor.GetDomainEvents()...)
			successor.ClearDomainEvents()
		}

		if len(carried) > 0 {
			movements := make([]*inventory.Movement, 0, len(carried))
			for i := range carried {
				movement, err := s.carryForward(ctx, repos, orgID, successor, &carried[i])
				if err != nil {
					return err
				}
				movements = append(movements, movement)
			}
			if err := repos.MovementRepo().SaveAll(ctx, movements); err != nil {
				return err
			}
			events = append(events, inventory.NewCycleCarriedForwardEvent(orgID, cycle.ID, successor.ID, len(carried)))
		}

		response.LockedCycle = ToCycleResponse(cycle)
		response.CarriedBalances = len(carried)
		if successor != nil {
			succ := ToCycleResponse(successor)
			response.SuccessorCycle = &succ
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events...)
	return &response, nil
}

// carryForward seeds one closing balance into the successor cycle and
// returns the OPENING ledger row for it
func (s *CycleCloseService) carryForward(
	ctx context.Context,
	repos TransactionalRepositories,
	orgID uuid.UUID,
	successor *planning.BudgetCycle,
	closing *inventory.Balance,
) (*inventory.Movement, error) {
	opening, err := repos.BalanceRepo().FindByScopeForUpdate(ctx, orgID, closing.ProjectID, successor.ID, closing.ProductID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		opening, err = inventory.NewBalance(orgID, closing.ProjectID, successor.ID, closing.ProductID)
		if err != nil {
			return nil, err
		}
	}

	balanceBefore := opening.Quantity
	if opening.IsEmpty() {
		if err := opening.SetOpening(closing.Quantity, closing.UnitCost); err != nil {
			return nil, err
		}
	} else {
		// Successor already traded this product; the carried position
		// merges into its weighted average.
		cost, err := valueobject.NewMoney(closing.UnitCost, valueobject.DefaultCurrency)
		if err != nil {
			return nil, err
		}
		if err := opening.Increase(closing.Quantity, cost); err != nil {
			return nil, err
		}
		opening.ClearDomainEvents()
	}
	if err := repos.BalanceRepo().Save(ctx, opening); err != nil {
		return nil, err
	}

	movement, err := inventory.NewMovement(
		orgID, opening, inventory.MovementTypeOpening,
		closing.Quantity, closing.UnitCost,
		balanceBefore, opening.Quantity,
		inventory.SourceTypeCarryForward, closing.CycleID.String(),
	)
	if err != nil {
		return nil, err
	}
	return movement, nil
}

func (s *CycleCloseService) publishEvents(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
