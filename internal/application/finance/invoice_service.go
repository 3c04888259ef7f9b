package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/finance"
	"github.com/ledgerline/backend/internal/domain/planning"
	"github.com/ledgerline/backend/internal/domain/shared"
	"github.com/ledgerline/backend/internal/domain/shared/valueobject"
	"github.com/ledgerline/backend/internal/domain/trade"
)

// InvoiceService handles the invoice lifecycle. Invoices never move stock;
// when derived from a sale they copy the posted sale's lines verbatim.
type InvoiceService struct {
	invoiceRepo    finance.InvoiceRepository
	saleRepo       trade.SaleRepository
	cycleRepo      planning.BudgetCycleRepository
	eventPublisher shared.EventPublisher
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo finance.InvoiceRepository,
	saleRepo trade.SaleRepository,
	cycleRepo planning.BudgetCycleRepository,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		saleRepo:    saleRepo,
		cycleRepo:   cycleRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create drafts an invoice. When SaleID is given the sale must be posted;
// its customer and lines seed the invoice unless explicit lines are passed.
func (s *InvoiceService) Create(ctx context.Context, orgID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	if err := s.checkOpenCycle(ctx, orgID, req.ProjectID, req.CycleID); err != nil {
		return nil, err
	}

	var sale *trade.Sale
	customerName := req.CustomerName
	if req.SaleID != nil {
		var err error
		sale, err = s.saleRepo.FindByID(ctx, orgID, *req.SaleID)
		if err != nil {
			return nil, err
		}
		if !sale.IsPosted() {
			return nil, shared.NewDomainError("SALE_NOT_POSTED", "Only posted sales can be invoiced")
		}
		if customerName == "" {
			customerName = sale.CustomerName
		}
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer name cannot be empty")
	}

	count, err := s.invoiceRepo.CountForOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	invoice, err := finance.NewInvoice(
		orgID, req.ProjectID, req.CycleID,
		finance.InvoiceNumber(count+1), customerName,
		valueobject.Currency(req.Currency),
	)
	if err != nil {
		return nil, err
	}
	if sale != nil {
		if err := invoice.LinkSale(sale.ID); err != nil {
			return nil, err
		}
	}

	if len(req.Lines) > 0 {
		for _, lineReq := range req.Lines {
			price, err := valueobject.NewMoney(lineReq.UnitPrice, invoice.Currency)
			if err != nil {
				return nil, shared.NewDomainError("INVALID_PRICE", "Invalid unit price")
			}
			if _, err := invoice.AddLine(lineReq.Description, lineReq.Quantity, price); err != nil {
				return nil, err
			}
		}
	} else if sale != nil {
		for _, saleLine := range sale.Lines {
			price, err := valueobject.NewMoney(saleLine.UnitPrice, invoice.Currency)
			if err != nil {
				return nil, shared.NewDomainError("INVALID_PRICE", "Invalid unit price")
			}
			if _, err := invoice.AddLine(saleLine.ProductName, saleLine.Quantity, price); err != nil {
				return nil, err
			}
		}
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice.GetDomainEvents()...)
	invoice.ClearDomainEvents()

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Issue finalizes a draft invoice and starts the payment clock
func (s *InvoiceService) Issue(ctx context.Context, orgID, id uuid.UUID, req IssueInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if err := invoice.Issue(req.IssuedOn, req.DueOn); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice.GetDomainEvents()...)
	invoice.ClearDomainEvents()

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// MarkPaid records full payment of an issued invoice
func (s *InvoiceService) MarkPaid(ctx context.Context, orgID, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if err := invoice.MarkPaid(); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice.GetDomainEvents()...)
	invoice.ClearDomainEvents()

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Void cancels a draft or issued invoice
func (s *InvoiceService) Void(ctx context.Context, orgID, id uuid.UUID, req VoidInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if err := invoice.Void(req.Reason); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice.GetDomainEvents()...)
	invoice.ClearDomainEvents()

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByID retrieves an invoice with its lines
func (s *InvoiceService) GetByID(ctx context.Context, orgID, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByNumber retrieves an invoice by its document number
func (s *InvoiceService) GetByNumber(ctx context.Context, orgID uuid.UUID, number string) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByNumber(ctx, orgID, number)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// ListForCycle retrieves the invoices of a cycle
func (s *InvoiceService) ListForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	domainFilter.Normalize()

	invoices, err := s.invoiceRepo.FindAllForCycle(ctx, orgID, cycleID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.CountForCycle(ctx, orgID, cycleID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToInvoiceResponses(invoices), total, nil
}

func (s *InvoiceService) checkOpenCycle(ctx context.Context, orgID, projectID, cycleID uuid.UUID) error {
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

func (s *InvoiceService) publishEvents(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
