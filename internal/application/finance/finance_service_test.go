package finance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/backend/internal/domain/finance"
	"github.com/ledgerline/backend/internal/domain/planning"
	"github.com/ledgerline/backend/internal/domain/shared"
	"github.com/ledgerline/backend/internal/domain/shared/valueobject"
	"github.com/ledgerline/backend/internal/domain/trade"
)

type mockExpenseRepo struct {
	mock.Mock
}

func (m *mockExpenseRepo) FindByID(ctx context.Context, orgID, id uuid.UUID) (*finance.ExpenseRecord, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.ExpenseRecord), args.Error(1)
}

func (m *mockExpenseRepo) FindAllForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter shared.Filter) ([]finance.ExpenseRecord, error) {
	args := m.Called(ctx, orgID, cycleID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.ExpenseRecord), args.Error(1)
}

func (m *mockExpenseRepo) Save(ctx context.Context, e *finance.ExpenseRecord) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *mockExpenseRepo) CountForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, orgID, cycleID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockExpenseRepo) SumForCycle(ctx context.Context, orgID, cycleID uuid.UUID, category *finance.ExpenseCategory) (decimal.Decimal, error) {
	args := m.Called(ctx, orgID, cycleID, category)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type mockInvoiceRepo struct {
	mock.Mock
}

func (m *mockInvoiceRepo) FindByID(ctx context.Context, orgID, id uuid.UUID) (*finance.Invoice, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) FindByNumber(ctx context.Context, orgID uuid.UUID, number string) (*finance.Invoice, error) {
	args := m.Called(ctx, orgID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) FindAllForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter shared.Filter) ([]finance.Invoice, error) {
	args := m.Called(ctx, orgID, cycleID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]finance.Invoice, error) {
	args := m.Called(ctx, orgID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) Save(ctx context.Context, inv *finance.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *mockInvoiceRepo) CountForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, orgID, cycleID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockInvoiceRepo) CountForOrg(ctx context.Context, orgID uuid.UUID) (int64, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).(int64), args.Error(1)
}

type mockSaleRepo struct {
	mock.Mock
}

func (m *mockSaleRepo) FindByID(ctx context.Context, orgID, id uuid.UUID) (*trade.Sale, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Sale), args.Error(1)
}

func (m *mockSaleRepo) FindByNumber(ctx context.Context, orgID uuid.UUID, number string) (*trade.Sale, error) {
	args := m.Called(ctx, orgID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Sale), args.Error(1)
}

func (m *mockSaleRepo) FindAllForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter shared.Filter) ([]trade.Sale, error) {
	args := m.Called(ctx, orgID, cycleID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Sale), args.Error(1)
}

func (m *mockSaleRepo) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]trade.Sale, error) {
	args := m.Called(ctx, orgID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Sale), args.Error(1)
}

func (m *mockSaleRepo) Save(ctx context.Context, s *trade.Sale) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockSaleRepo) CountForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, orgID, cycleID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSaleRepo) CountForOrg(ctx context.Context, orgID uuid.UUID) (int64, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).(int64), args.Error(1)
}

type mockCycleRepo struct {
	mock.Mock
}

func (m *mockCycleRepo) FindByID(ctx context.Context, orgID, id uuid.UUID) (*planning.BudgetCycle, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planning.BudgetCycle), args.Error(1)
}

func (m *mockCycleRepo) FindByIDForShare(ctx context.Context, orgID, id uuid.UUID) (*planning.BudgetCycle, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planning.BudgetCycle), args.Error(1)
}

func (m *mockCycleRepo) FindByIDForUpdate(ctx context.Context, orgID, id uuid.UUID) (*planning.BudgetCycle, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planning.BudgetCycle), args.Error(1)
}

func (m *mockCycleRepo) FindOpenForProject(ctx context.Context, orgID, projectID uuid.UUID) (*planning.BudgetCycle, error) {
	args := m.Called(ctx, orgID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planning.BudgetCycle), args.Error(1)
}

func (m *mockCycleRepo) FindBySequence(ctx context.Context, orgID, projectID uuid.UUID, sequence int) (*planning.BudgetCycle, error) {
	args := m.Called(ctx, orgID, projectID, sequence)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planning.BudgetCycle), args.Error(1)
}

func (m *mockCycleRepo) FindSuccessor(ctx context.Context, orgID, previousCycleID uuid.UUID) (*planning.BudgetCycle, error) {
	args := m.Called(ctx, orgID, previousCycleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planning.BudgetCycle), args.Error(1)
}

func (m *mockCycleRepo) FindAllForProject(ctx context.Context, orgID, projectID uuid.UUID, filter shared.Filter) ([]planning.BudgetCycle, error) {
	args := m.Called(ctx, orgID, projectID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]planning.BudgetCycle), args.Error(1)
}

func (m *mockCycleRepo) Save(ctx context.Context, c *planning.BudgetCycle) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockCycleRepo) CountForProject(ctx context.Context, orgID, projectID uuid.UUID) (int64, error) {
	args := m.Called(ctx, orgID, projectID)
	return args.Get(0).(int64), args.Error(1)
}

type financeFixture struct {
	orgID     uuid.UUID
	projectID uuid.UUID
	cycle     *planning.BudgetCycle

	expenses *mockExpenseRepo
	invoices *mockInvoiceRepo
	sales    *mockSaleRepo
	cycles   *mockCycleRepo

	expenseService *ExpenseService
	invoiceService *InvoiceService
}

func newFinanceFixture(t *testing.T) *financeFixture {
	t.Helper()
	orgID, projectID := uuid.New(), uuid.New()
	cycle, err := planning.NewBudgetCycle(orgID, projectID, "Q1", 1,
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	cycle.ClearDomainEvents()

	f := &financeFixture{
		orgID:     orgID,
		projectID: projectID,
		cycle:     cycle,
		expenses:  new(mockExpenseRepo),
		invoices:  new(mockInvoiceRepo),
		sales:     new(mockSaleRepo),
		cycles:    new(mockCycleRepo),
	}
	f.expenseService = NewExpenseService(f.expenses, f.cycles)
	f.invoiceService = NewInvoiceService(f.invoices, f.sales, f.cycles)
	return f
}

func (f *financeFixture) expectOpenCycle() {
	f.cycles.On("FindByID", mock.Anything, f.orgID, f.cycle.ID).Return(f.cycle, nil)
}

func TestExpenseService_Create(t *testing.T) {
	f := newFinanceFixture(t)
	f.expectOpenCycle()
	f.expenses.On("Save", mock.Anything, mock.AnythingOfType("*finance.ExpenseRecord")).Return(nil)

	resp, err := f.expenseService.Create(context.Background(), f.orgID, CreateExpenseRequest{
		ProjectID:   f.projectID,
		CycleID:     f.cycle.ID,
		Category:    "MATERIALS",
		Description: "plywood sheets",
		Amount:      decimal.RequireFromString("320.50"),
	})
	require.NoError(t, err)

	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, "MATERIALS", resp.Category)
	assert.True(t, resp.Amount.Equal(decimal.RequireFromString("320.50")))
}

func TestExpenseService_Create_LockedCycle(t *testing.T) {
	f := newFinanceFixture(t)
	require.NoError(t, f.cycle.Lock())
	f.expectOpenCycle()

	_, err := f.expenseService.Create(context.Background(), f.orgID, CreateExpenseRequest{
		ProjectID:   f.projectID,
		CycleID:     f.cycle.ID,
		Category:    "MATERIALS",
		Description: "plywood sheets",
		Amount:      decimal.RequireFromString("10.00"),
	})
	assert.ErrorIs(t, err, shared.ErrCycleLocked)
	f.expenses.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestExpenseService_Create_UnknownCategory(t *testing.T) {
	f := newFinanceFixture(t)
	f.expectOpenCycle()

	_, err := f.expenseService.Create(context.Background(), f.orgID, CreateExpenseRequest{
		ProjectID:   f.projectID,
		CycleID:     f.cycle.ID,
		Category:    "TRAVEL",
		Description: "taxi",
		Amount:      decimal.RequireFromString("10.00"),
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CATEGORY", domainErr.Code)
}

func (f *financeFixture) pendingExpense(t *testing.T) *finance.ExpenseRecord {
	t.Helper()
	amount, err := valueobject.NewMoneyFromString("320.50", valueobject.DefaultCurrency)
	require.NoError(t, err)
	e, err := finance.NewExpenseRecord(f.orgID, f.projectID, f.cycle.ID,
		finance.ExpenseCategoryMaterials, "plywood sheets", amount, time.Now(), "")
	require.NoError(t, err)
	e.ClearDomainEvents()
	return e
}

func TestExpenseService_ApproveAndReject(t *testing.T) {
	f := newFinanceFixture(t)
	expense := f.pendingExpense(t)
	decider := uuid.New()

	f.expenses.On("FindByID", mock.Anything, f.orgID, expense.ID).Return(expense, nil)
	f.expenses.On("Save", mock.Anything, expense).Return(nil)

	resp, err := f.expenseService.Approve(context.Background(), f.orgID, expense.ID, DecideExpenseRequest{
		DeciderID: decider,
		Note:      "within budget",
	})
	require.NoError(t, err)

	assert.Equal(t, "APPROVED", resp.Status)
	require.NotNil(t, resp.DecidedBy)
	assert.Equal(t, decider, *resp.DecidedBy)

	// A decided expense cannot be decided again
	_, err = f.expenseService.Reject(context.Background(), f.orgID, expense.ID, DecideExpenseRequest{})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestExpenseService_Summarize(t *testing.T) {
	f := newFinanceFixture(t)
	materials := finance.ExpenseCategoryMaterials
	f.expenses.On("SumForCycle", mock.Anything, f.orgID, f.cycle.ID, &materials).
		Return(decimal.RequireFromString("980.00"), nil)

	resp, err := f.expenseService.Summarize(context.Background(), f.orgID, f.cycle.ID, "MATERIALS")
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("980.00")))

	_, err = f.expenseService.Summarize(context.Background(), f.orgID, f.cycle.ID, "TRAVEL")
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CATEGORY", domainErr.Code)
}

func (f *financeFixture) postedSale(t *testing.T) *trade.Sale {
	t.Helper()
	sale, err := trade.NewSale(f.orgID, f.projectID, f.cycle.ID, trade.SaleNumber(1), "Northwind", time.Now())
	require.NoError(t, err)
	price, err := valueobject.NewMoneyFromString("149.99", valueobject.DefaultCurrency)
	require.NoError(t, err)
	_, err = sale.AddLine(uuid.New(), "Oak Table", "TBL-01", decimal.RequireFromString("2"), price)
	require.NoError(t, err)
	require.NoError(t, sale.Post(nil))
	sale.ClearDomainEvents()
	return sale
}

func TestInvoiceService_Create_FromPostedSale(t *testing.T) {
	f := newFinanceFixture(t)
	sale := f.postedSale(t)

	f.expectOpenCycle()
	f.sales.On("FindByID", mock.Anything, f.orgID, sale.ID).Return(sale, nil)
	f.invoices.On("CountForOrg", mock.Anything, f.orgID).Return(int64(0), nil)
	f.invoices.On("Save", mock.Anything, mock.AnythingOfType("*finance.Invoice")).Return(nil)

	resp, err := f.invoiceService.Create(context.Background(), f.orgID, CreateInvoiceRequest{
		ProjectID: f.projectID,
		CycleID:   f.cycle.ID,
		SaleID:    &sale.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-000001", resp.Number)
	assert.Equal(t, "Northwind", resp.CustomerName, "customer defaults from the sale")
	require.NotNil(t, resp.SaleID)
	assert.Equal(t, sale.ID, *resp.SaleID)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "Oak Table", resp.Lines[0].Description)
	assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("299.98")))
}

func TestInvoiceService_Create_RejectsDraftSale(t *testing.T) {
	f := newFinanceFixture(t)
	sale, err := trade.NewSale(f.orgID, f.projectID, f.cycle.ID, trade.SaleNumber(2), "Northwind", time.Now())
	require.NoError(t, err)

	f.expectOpenCycle()
	f.sales.On("FindByID", mock.Anything, f.orgID, sale.ID).Return(sale, nil)

	_, err = f.invoiceService.Create(context.Background(), f.orgID, CreateInvoiceRequest{
		ProjectID: f.projectID,
		CycleID:   f.cycle.ID,
		SaleID:    &sale.ID,
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SALE_NOT_POSTED", domainErr.Code)
}

func TestInvoiceService_Create_RequiresCustomer(t *testing.T) {
	f := newFinanceFixture(t)
	f.expectOpenCycle()

	_, err := f.invoiceService.Create(context.Background(), f.orgID, CreateInvoiceRequest{
		ProjectID: f.projectID,
		CycleID:   f.cycle.ID,
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CUSTOMER", domainErr.Code)
}

func TestInvoiceService_Lifecycle(t *testing.T) {
	f := newFinanceFixture(t)
	invoice, err := finance.NewInvoice(f.orgID, f.projectID, f.cycle.ID, finance.InvoiceNumber(1), "Northwind", valueobject.USD)
	require.NoError(t, err)
	price, err := valueobject.NewMoneyFromString("150.00", valueobject.DefaultCurrency)
	require.NoError(t, err)
	_, err = invoice.AddLine("Oak Table", decimal.RequireFromString("1"), price)
	require.NoError(t, err)
	invoice.ClearDomainEvents()

	f.invoices.On("FindByID", mock.Anything, f.orgID, invoice.ID).Return(invoice, nil)
	f.invoices.On("Save", mock.Anything, invoice).Return(nil)

	issued, err := f.invoiceService.Issue(context.Background(), f.orgID, invoice.ID, IssueInvoiceRequest{
		IssuedOn: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "ISSUED", issued.Status)

	paid, err := f.invoiceService.MarkPaid(context.Background(), f.orgID, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, "PAID", paid.Status)
	require.NotNil(t, paid.PaidAt)

	// Paid invoices cannot be voided
	_, err = f.invoiceService.Void(context.Background(), f.orgID, invoice.ID, VoidInvoiceRequest{Reason: "too late"})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}
