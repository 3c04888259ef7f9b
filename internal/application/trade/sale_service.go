package trade

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/catalog"
	"github.com/ledgerline/backend/internal/domain/inventory"
	"github.com/ledgerline/backend/internal/domain/planning"
	"github.com/ledgerline/backend/internal/domain/shared"
	"github.com/ledgerline/backend/internal/domain/shared/valueobject"
	"github.com/ledgerline/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// SaleService handles the sale lifecycle. Drafting and editing only touch
// the sale itself; posting runs inside a transaction scope because it issues
// stock for every goods line and captures cost of goods sold from the
// weighted average at issue time.
type SaleService struct {
	scope          TransactionScope
	saleRepo       trade.SaleRepository
	productRepo    catalog.ProductRepository
	cycleRepo      planning.BudgetCycleRepository
	eventPublisher shared.EventPublisher
}

// NewSaleService creates a new SaleService. The standalone repositories
// serve drafting and read paths; posting goes through the scope.
func NewSaleService(
	scope TransactionScope,
	saleRepo trade.SaleRepository,
	productRepo catalog.ProductRepository,
	cycleRepo planning.BudgetCycleRepository,
) *SaleService {
	return &SaleService{
		scope:       scope,
		saleRepo:    saleRepo,
		productRepo: productRepo,
		cycleRepo:   cycleRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SaleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create drafts a sale, optionally with initial lines
func (s *SaleService) Create(ctx context.Context, orgID uuid.UUID, req CreateSaleRequest) (*SaleResponse, error) {
	if err := s.checkOpenCycle(ctx, orgID, req.ProjectID, req.CycleID); err != nil {
		return nil, err
	}

	count, err := s.saleRepo.CountForOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	sale, err := trade.NewSale(orgID, req.ProjectID, req.CycleID, trade.SaleNumber(count+1), req.CustomerName, req.SoldOn)
	if err != nil {
		return nil, err
	}
	sale.Remark = req.Remark

	for _, lineReq := range req.Lines {
		if err := s.addLine(ctx, orgID, sale, lineReq.ProductID, lineReq.Quantity, lineReq.UnitPrice); err != nil {
			return nil, err
		}
	}

	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sale.GetDomainEvents()...)
	sale.ClearDomainEvents()

	response := ToSaleResponse(sale)
	return &response, nil
}

// AddLine adds a product line to a draft sale
func (s *SaleService) AddLine(ctx context.Context, orgID, saleID uuid.UUID, req AddSaleLineRequest) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, orgID, saleID)
	if err != nil {
		return nil, err
	}
	if err := s.addLine(ctx, orgID, sale, req.ProductID, req.Quantity, req.UnitPrice); err != nil {
		return nil, err
	}
	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// RemoveLine removes a product line from a draft sale
func (s *SaleService) RemoveLine(ctx context.Context, orgID, saleID, lineID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, orgID, saleID)
	if err != nil {
		return nil, err
	}
	if err := sale.RemoveLine(lineID); err != nil {
		return nil, err
	}
	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// Post posts a draft sale. Every goods line issues stock from its cycle
// balance at the current weighted average cost; that cost is fixed on the
// line as its unit COGS. Service lines carry zero COGS. If any line cannot
// be covered by the stock on hand the whole posting fails.
func (s *SaleService) Post(ctx context.Context, orgID, saleID uuid.UUID, req PostSaleRequest) (*SaleResponse, error) {
	var response SaleResponse
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := repos.SaleRepo().FindByID(ctx, orgID, saleID)
		if err != nil {
			return err
		}
		if sale.Status != trade.SaleStatusDraft {
			return shared.NewDomainError("INVALID_STATE", "Only draft sales can be posted")
		}

		// Share-lock the cycle row so locking the cycle waits for this
		// posting to commit
		cycle, err := repos.CycleRepo().FindByIDForShare(ctx, orgID, sale.CycleID)
		if err != nil {
			return err
		}
		if cycle.IsLocked() {
			return shared.ErrCycleLocked
		}

		products, err := s.loadProducts(ctx, orgID, sale)
		if err != nil {
			return err
		}

		lineCosts := make(map[uuid.UUID]decimal.Decimal)
		movements := make([]*inventory.Movement, 0, len(sale.Lines))
		for i := range sale.Lines {
			line := &sale.Lines[i]
			product := products[line.ProductID]
			if !product.IsStockTracked() {
				continue
			}

			balance, err := repos.BalanceRepo().FindByScopeForUpdate(ctx, orgID, sale.ProjectID, sale.CycleID, line.ProductID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.ErrInsufficientStock
				}
				return err
			}

			balanceBefore := balance.Quantity
			costAtIssue, err := balance.Decrease(line.Quantity)
			if err != nil {
				return err
			}
			if err := repos.BalanceRepo().Save(ctx, balance); err != nil {
				return err
			}

			movement, err := inventory.NewMovement(
				orgID, balance, inventory.MovementTypeIssue,
				line.Quantity, costAtIssue,
				balanceBefore, balance.Quantity,
				inventory.SourceTypeSale, sale.Number,
			)
			if err != nil {
				return err
			}
			if req.OperatorID != nil {
				movement.WithOperatorID(*req.OperatorID)
			}
			movements = append(movements, movement)
			lineCosts[line.ID] = costAtIssue
		}

		if len(movements) > 0 {
			if err := repos.MovementRepo().SaveAll(ctx, movements); err != nil {
				return err
			}
		}

		if err := sale.Post(lineCosts); err != nil {
			return err
		}
		if err := repos.SaleRepo().Save(ctx, sale); err != nil {
			return err
		}

		events = append(events, sale.GetDomainEvents()...)
		for _, movement := range movements {
			events = append(events, inventory.NewMovementRecordedEvent(movement))
		}
		sale.ClearDomainEvents()
		response = ToSaleResponse(sale)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events...)
	return &response, nil
}

// Cancel discards a draft sale
func (s *SaleService) Cancel(ctx context.Context, orgID, saleID uuid.UUID, req CancelSaleRequest) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, orgID, saleID)
	if err != nil {
		return nil, err
	}
	if err := sale.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sale.GetDomainEvents()...)
	sale.ClearDomainEvents()

	response := ToSaleResponse(sale)
	return &response, nil
}

// GetByID retrieves a sale with its lines
func (s *SaleService) GetByID(ctx context.Context, orgID, saleID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, orgID, saleID)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// GetByNumber retrieves a sale by its document number
func (s *SaleService) GetByNumber(ctx context.Context, orgID uuid.UUID, number string) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByNumber(ctx, orgID, number)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// ListForCycle retrieves the sales of a cycle
func (s *SaleService) ListForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter SaleListFilter) ([]SaleResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	domainFilter.Normalize()

	sales, err := s.saleRepo.FindAllForCycle(ctx, orgID, cycleID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.saleRepo.CountForCycle(ctx, orgID, cycleID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToSaleResponses(sales), total, nil
}

// addLine resolves the product and appends a line to the sale, defaulting
// the unit price to the product's selling price
func (s *SaleService) addLine(ctx context.Context, orgID uuid.UUID, sale *trade.Sale, productID uuid.UUID, quantity decimal.Decimal, unitPrice *decimal.Decimal) error {
	product, err := s.productRepo.FindByID(ctx, orgID, productID)
	if err != nil {
		return err
	}
	if !product.IsActive() {
		return shared.NewDomainError("PRODUCT_INACTIVE", "Cannot sell an inactive product")
	}

	price := product.SellingPrice
	if unitPrice != nil {
		price = *unitPrice
	}
	money, err := valueobject.NewMoney(price, valueobject.DefaultCurrency)
	if err != nil {
		return shared.NewDomainError("INVALID_PRICE", "Invalid unit price")
	}
	_, err = sale.AddLine(product.ID, product.Name, product.SKU, quantity, money)
	return err
}

// loadProducts resolves every product on the sale, keyed by ID
func (s *SaleService) loadProducts(ctx context.Context, orgID uuid.UUID, sale *trade.Sale) (map[uuid.UUID]*catalog.Product, error) {
	ids := make([]uuid.UUID, len(sale.Lines))
	for i, line := range sale.Lines {
		ids[i] = line.ProductID
	}
	products, err := s.productRepo.FindByIDs(ctx, orgID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Sale references a product that does not exist")
		}
	}
	return byID, nil
}

func (s *SaleService) checkOpenCycle(ctx context.Context, orgID, projectID, cycleID uuid.UUID) error {
	cycle, err := s.cycleRepo.FindByID(ctx, orgID, cycleID)
	if err != nil {
		return err
	}
	if cycle.ProjectID != projectID {
		return shared.NewDomainError("CYCLE_PROJECT_MISMATCH", "Cycle does not belong to the given project")
	}
	if cycle.IsLocked() {
		return shared.ErrCycleLocked
	}
	return nil
}

func (s *SaleService) publishEvents(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
