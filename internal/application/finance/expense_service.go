package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/finance"
	"github.com/ledgerline/backend/internal/domain/planning"
	"github.com/ledgerline/backend/internal/domain/shared"
	"github.com/ledgerline/backend/internal/domain/shared/valueobject"
)

// ExpenseService handles expense recording and approval. Expenses do not
// move stock, so no transaction scope is needed; the only cross-aggregate
// rule is that records land in open cycles.
type ExpenseService struct {
	expenseRepo    finance.ExpenseRepository
	cycleRepo      planning.BudgetCycleRepository
	eventPublisher shared.EventPublisher
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo finance.ExpenseRepository, cycleRepo planning.BudgetCycleRepository) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		cycleRepo:   cycleRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ExpenseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create records a new pending expense against an open cycle
func (s *ExpenseService) Create(ctx context.Context, orgID uuid.UUID, req CreateExpenseRequest) (*ExpenseResponse, error) {
	if err := s.checkOpenCycle(ctx, orgID, req.ProjectID, req.CycleID); err != nil {
		return nil, err
	}

	amount, err := valueobject.NewMoney(req.Amount, valueobject.DefaultCurrency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invalid expense amount")
	}
	expense, err := finance.NewExpenseRecord(
		orgID, req.ProjectID, req.CycleID,
		finance.ExpenseCategory(req.Category),
		req.Description, amount, req.IncurredOn, req.ReceiptRef,
	)
	if err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, expense.GetDomainEvents()...)
	expense.ClearDomainEvents()

	response := ToExpenseResponse(expense)
	return &response, nil
}

// Update changes a pending expense
func (s *ExpenseService) Update(ctx context.Context, orgID, id uuid.UUID, req UpdateExpenseRequest) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	amount, err := valueobject.NewMoney(req.Amount, valueobject.DefaultCurrency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invalid expense amount")
	}
	if err := expense.Update(finance.ExpenseCategory(req.Category), req.Description, amount, req.IncurredOn, req.ReceiptRef); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	response := ToExpenseResponse(expense)
	return &response, nil
}

// Approve accepts a pending expense
func (s *ExpenseService) Approve(ctx context.Context, orgID, id uuid.UUID, req DecideExpenseRequest) (*ExpenseResponse, error) {
	return s.decide(ctx, orgID, id, req, (*finance.ExpenseRecord).Approve)
}

// Reject declines a pending expense
func (s *ExpenseService) Reject(ctx context.Context, orgID, id uuid.UUID, req DecideExpenseRequest) (*ExpenseResponse, error) {
	return s.decide(ctx, orgID, id, req, (*finance.ExpenseRecord).Reject)
}

func (s *ExpenseService) decide(
	ctx context.Context,
	orgID, id uuid.UUID,
	req DecideExpenseRequest,
	apply func(*finance.ExpenseRecord, uuid.UUID, string) error,
) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(expense, req.DeciderID, req.Note); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, expense.GetDomainEvents()...)
	expense.ClearDomainEvents()

	response := ToExpenseResponse(expense)
	return &response, nil
}

// GetByID retrieves an expense record
func (s *ExpenseService) GetByID(ctx context.Context, orgID, id uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	response := ToExpenseResponse(expense)
	return &response, nil
}

// ListForCycle retrieves the expenses of a cycle
func (s *ExpenseService) ListForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter ExpenseListFilter) ([]ExpenseResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Filters:  make(map[string]interface{}),
	}
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	domainFilter.Normalize()

	expenses, err := s.expenseRepo.FindAllForCycle(ctx, orgID, cycleID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.expenseRepo.CountForCycle(ctx, orgID, cycleID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToExpenseResponses(expenses), total, nil
}

// Summarize totals the approved expenses of a cycle, optionally restricted
// to one category
func (s *ExpenseService) Summarize(ctx context.Context, orgID, cycleID uuid.UUID, category string) (*ExpenseSummaryResponse, error) {
	var categoryFilter *finance.ExpenseCategory
	if category != "" {
		c := finance.ExpenseCategory(category)
		if !c.IsValid() {
			return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown expense category")
		}
		categoryFilter = &c
	}
	total, err := s.expenseRepo.SumForCycle(ctx, orgID, cycleID, categoryFilter)
	if err != nil {
		return nil, err
	}
	return &ExpenseSummaryResponse{
		CycleID:  cycleID,
		Category: category,
		Total:    total,
	}, nil
}

func (s *ExpenseService) checkOpenCycle(ctx context.Context, orgID, projectID, cycleID uuid.UUID) error {
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

func (s *ExpenseService) publishEvents(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
