package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/catalog"
	"github.com/ledgerline/backend/internal/domain/inventory"
	"github.com/ledgerline/backend/internal/domain/shared"
	"github.com/ledgerline/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProductionService drafts and executes production orders. Completing an
// order consumes bill-of-material components at their weighted average cost
// and receives the output priced at total component cost divided by output
// quantity. Consumption, receipt, ledger rows and the order state change are
// one transaction.
type ProductionService struct {
	scope          TransactionScope
	productRepo    catalog.ProductRepository
	productionRepo inventory.ProductionOrderRepository
	eventPublisher shared.EventPublisher
}

// NewProductionService creates a new ProductionService
func NewProductionService(
	scope TransactionScope,
	productRepo catalog.ProductRepository,
	productionRepo inventory.ProductionOrderRepository,
) *ProductionService {
	return &ProductionService{
		scope:          scope,
		productRepo:    productRepo,
		productionRepo: productionRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProductionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ProductionService) publishEvents(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

// Create drafts a production order. Component lines are the product's bill
// of materials scaled by the output quantity.
func (s *ProductionService) Create(ctx context.Context, orgID uuid.UUID, req CreateProductionOrderRequest) (*ProductionOrderResponse, error) {
	product, err := s.productRepo.FindByID(ctx, orgID, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive() {
		return nil, shared.NewDomainError("PRODUCT_INACTIVE", "Cannot produce an inactive product")
	}
	if product.Kind != catalog.ProductKindGoods {
		return nil, shared.NewDomainError("NOT_GOODS", "Only goods can have production orders")
	}
	if !product.HasBOM() {
		return nil, shared.NewDomainError("NO_BOM", "Product has no bill of materials")
	}

	var response ProductionOrderResponse
	var events []shared.DomainEvent

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := requireOpenCycle(ctx, repos.CycleRepo(), orgID, req.ProjectID, req.CycleID); err != nil {
			return err
		}

		count, err := repos.ProductionRepo().CountForOrg(ctx, orgID)
		if err != nil {
			return err
		}
		number := fmt.Sprintf("PRD-%06d", count+1)

		po, err := inventory.NewProductionOrder(orgID, req.ProjectID, req.CycleID, req.ProductID, number, req.OutputQuantity)
		if err != nil {
			return err
		}
		for _, line := range product.BOMLines {
			required := line.Quantity.Mul(req.OutputQuantity)
			if err := po.AddComponent(line.ComponentID, required); err != nil {
				return err
			}
		}
		if err := repos.ProductionRepo().Save(ctx, po); err != nil {
			return err
		}

		events = append(events, po.GetDomainEvents()...)
		po.ClearDomainEvents()
		response = ToProductionOrderResponse(po)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events...)
	return &response, nil
}

// Complete executes a draft production order: components are issued from
// stock, the output is received, and the order records the resulting costs
func (s *ProductionService) Complete(ctx context.Context, orgID, orderID uuid.UUID) (*ProductionOrderResponse, error) {
	var response ProductionOrderResponse
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		po, err := repos.ProductionRepo().FindByID(ctx, orgID, orderID)
		if err != nil {
			return err
		}
		if _, err := requireOpenCycle(ctx, repos.CycleRepo(), orgID, po.ProjectID, po.CycleID); err != nil {
			return err
		}

		// Issue every component first so an insufficient balance aborts
		// before anything is received
		componentCosts := make(map[uuid.UUID]decimal.Decimal, len(po.Components))
		for _, c := range po.Components {
			balance, err := repos.BalanceRepo().FindByScopeForUpdate(ctx, orgID, po.ProjectID, po.CycleID, c.ComponentID)
			if err != nil {
				return err
			}
			balanceBefore := balance.Quantity
			costAtIssue, err := balance.Decrease(c.Quantity)
			if err != nil {
				return err
			}
			if err := repos.BalanceRepo().Save(ctx, balance); err != nil {
				return err
			}
			componentCosts[c.ComponentID] = costAtIssue

			movement, err := inventory.NewMovement(
				orgID, balance, inventory.MovementTypeProductionOut,
				c.Quantity, costAtIssue,
				balanceBefore, balance.Quantity,
				inventory.SourceTypeProductionOrder, po.Number,
			)
			if err != nil {
				return err
			}
			if err := repos.MovementRepo().Save(ctx, movement); err != nil {
				return err
			}
			events = append(events, inventory.NewMovementRecordedEvent(movement))
		}

		if err := po.Complete(componentCosts); err != nil {
			return err
		}

		outBalance, err := getOrCreateBalance(ctx, repos.BalanceRepo(), orgID, po.ProjectID, po.CycleID, po.ProductID)
		if err != nil {
			return err
		}
		outBefore := outBalance.Quantity
		outCost, err := valueobject.NewMoney(po.UnitCost, valueobject.DefaultCurrency)
		if err != nil {
			return shared.NewDomainError("INVALID_COST", "Invalid production unit cost")
		}
		if err := outBalance.Increase(po.OutputQuantity, outCost); err != nil {
			return err
		}
		if err := repos.BalanceRepo().Save(ctx, outBalance); err != nil {
			return err
		}

		inMovement, err := inventory.NewMovement(
			orgID, outBalance, inventory.MovementTypeProductionIn,
			po.OutputQuantity, po.UnitCost,
			outBefore, outBalance.Quantity,
			inventory.SourceTypeProductionOrder, po.Number,
		)
		if err != nil {
			return err
		}
		if err := repos.MovementRepo().Save(ctx, inMovement); err != nil {
			return err
		}
		events = append(events, inventory.NewMovementRecordedEvent(inMovement))

		if err := repos.ProductionRepo().Save(ctx, po); err != nil {
			return err
		}

		events = append(events, po.GetDomainEvents()...)
		events = append(events, outBalance.GetDomainEvents()...)
		po.ClearDomainEvents()
		outBalance.ClearDomainEvents()
		response = ToProductionOrderResponse(po)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events...)
	return &response, nil
}

// Cancel discards a draft production order
func (s *ProductionService) Cancel(ctx context.Context, orgID, orderID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		po, err := repos.ProductionRepo().FindByID(ctx, orgID, orderID)
		if err != nil {
			return err
		}
		if err := po.Cancel(); err != nil {
			return err
		}
		return repos.ProductionRepo().Save(ctx, po)
	})
}

// GetByID retrieves a production order
func (s *ProductionService) GetByID(ctx context.Context, orgID, orderID uuid.UUID) (*ProductionOrderResponse, error) {
	po, err := s.productionRepo.FindByID(ctx, orgID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToProductionOrderResponse(po)
	return &response, nil
}

// ListForCycle retrieves production orders of a cycle
func (s *ProductionService) ListForCycle(ctx context.Context, orgID, cycleID uuid.UUID, page, pageSize int) ([]ProductionOrderResponse, int64, error) {
	filter := shared.Filter{Page: page, PageSize: pageSize}
	filter.Normalize()

	orders, err := s.productionRepo.FindAllForCycle(ctx, orgID, cycleID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productionRepo.CountForCycle(ctx, orgID, cycleID, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToProductionOrderResponses(orders), total, nil
}
