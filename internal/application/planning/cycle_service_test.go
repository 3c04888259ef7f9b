package planning

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/backend/internal/domain/inventory"
	"github.com/ledgerline/backend/internal/domain/org"
	"github.com/ledgerline/backend/internal/domain/planning"
	"github.com/ledgerline/backend/internal/domain/shared"
)

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

type mockProjectRepo struct {
	mock.Mock
}

func (m *mockProjectRepo) FindByID(ctx context.Context, orgID, id uuid.UUID) (*org.Project, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*org.Project), args.Error(1)
}

func (m *mockProjectRepo) FindByCode(ctx context.Context, orgID uuid.UUID, code string) (*org.Project, error) {
	args := m.Called(ctx, orgID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*org.Project), args.Error(1)
}

func (m *mockProjectRepo) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]org.Project, error) {
	args := m.Called(ctx, orgID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]org.Project), args.Error(1)
}

func (m *mockProjectRepo) Save(ctx context.Context, p *org.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProjectRepo) CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProjectRepo) ExistsByCode(ctx context.Context, orgID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, orgID, code)
	return args.Bool(0), args.Error(1)
}

func testDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newOpenCycle(t *testing.T, orgID, projectID uuid.UUID, sequence int, previousID *uuid.UUID) *planning.BudgetCycle {
	t.Helper()
	c, err := planning.NewBudgetCycle(orgID, projectID, "cycle", sequence,
		testDate(2026, time.January, 1), testDate(2026, time.March, 31), previousID)
	require.NoError(t, err)
	c.ClearDomainEvents()
	return c
}

func TestCycleService_Create_FirstCycle(t *testing.T) {
	cycles := new(mockCycleRepo)
	projects := new(mockProjectRepo)
	service := NewCycleService(cycles, projects)

	orgID, projectID := uuid.New(), uuid.New()
	project, err := org.NewProject(orgID, "Workshop", "WRK", "")
	require.NoError(t, err)

	projects.On("FindByID", mock.Anything, orgID, projectID).Return(project, nil)
	cycles.On("FindOpenForProject", mock.Anything, orgID, projectID).Return(nil, shared.ErrNotFound)
	cycles.On("CountForProject", mock.Anything, orgID, projectID).Return(int64(0), nil)
	cycles.On("Save", mock.Anything, mock.AnythingOfType("*planning.BudgetCycle")).Return(nil)

	resp, err := service.Create(context.Background(), orgID, CreateCycleRequest{
		ProjectID: projectID,
		Name:      "Q1",
		StartsOn:  testDate(2026, time.January, 1),
		EndsOn:    testDate(2026, time.March, 31),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Sequence)
	assert.Nil(t, resp.PreviousCycleID)
	assert.Equal(t, "OPEN", resp.Status)
	cycles.AssertExpectations(t)
}

func TestCycleService_Create_ChainsToPrevious(t *testing.T) {
	cycles := new(mockCycleRepo)
	projects := new(mockProjectRepo)
	service := NewCycleService(cycles, projects)

	orgID, projectID := uuid.New(), uuid.New()
	project, err := org.NewProject(orgID, "Workshop", "WRK", "")
	require.NoError(t, err)
	previous := newOpenCycle(t, orgID, projectID, 1, nil)
	require.NoError(t, previous.Lock())

	projects.On("FindByID", mock.Anything, orgID, projectID).Return(project, nil)
	cycles.On("FindOpenForProject", mock.Anything, orgID, projectID).Return(nil, shared.ErrNotFound)
	cycles.On("CountForProject", mock.Anything, orgID, projectID).Return(int64(1), nil)
	cycles.On("FindBySequence", mock.Anything, orgID, projectID, 1).Return(previous, nil)
	cycles.On("Save", mock.Anything, mock.AnythingOfType("*planning.BudgetCycle")).Return(nil)

	resp, err := service.Create(context.Background(), orgID, CreateCycleRequest{
		ProjectID: projectID,
		Name:      "Q2",
		StartsOn:  testDate(2026, time.April, 1),
		EndsOn:    testDate(2026, time.June, 30),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Sequence)
	require.NotNil(t, resp.PreviousCycleID)
	assert.Equal(t, previous.ID, *resp.PreviousCycleID)
}

func TestCycleService_Create_RejectsSecondOpenCycle(t *testing.T) {
	cycles := new(mockCycleRepo)
	projects := new(mockProjectRepo)
	service := NewCycleService(cycles, projects)

	orgID, projectID := uuid.New(), uuid.New()
	project, err := org.NewProject(orgID, "Workshop", "WRK", "")
	require.NoError(t, err)
	open := newOpenCycle(t, orgID, projectID, 1, nil)

	projects.On("FindByID", mock.Anything, orgID, projectID).Return(project, nil)
	cycles.On("FindOpenForProject", mock.Anything, orgID, projectID).Return(open, nil)

	_, err = service.Create(context.Background(), orgID, CreateCycleRequest{
		ProjectID: projectID,
		Name:      "Q2",
		StartsOn:  testDate(2026, time.April, 1),
		EndsOn:    testDate(2026, time.June, 30),
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CYCLE_ALREADY_OPEN", domainErr.Code)
	cycles.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCycleService_Create_RejectsArchivedProject(t *testing.T) {
	cycles := new(mockCycleRepo)
	projects := new(mockProjectRepo)
	service := NewCycleService(cycles, projects)

	orgID, projectID := uuid.New(), uuid.New()
	project, err := org.NewProject(orgID, "Workshop", "WRK", "")
	require.NoError(t, err)
	require.NoError(t, project.Archive())

	projects.On("FindByID", mock.Anything, orgID, projectID).Return(project, nil)

	_, err = service.Create(context.Background(), orgID, CreateCycleRequest{
		ProjectID: projectID,
		Name:      "Q1",
		StartsOn:  testDate(2026, time.January, 1),
		EndsOn:    testDate(2026, time.March, 31),
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PROJECT_ARCHIVED", domainErr.Code)
}

type mockBalanceRepo struct {
	mock.Mock
}

func (m *mockBalanceRepo) FindByID(ctx context.Context, orgID, id uuid.UUID) (*inventory.Balance, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Balance), args.Error(1)
}

func (m *mockBalanceRepo) FindByScope(ctx context.Context, orgID, projectID, cycleID, productID uuid.UUID) (*inventory.Balance, error) {
	args := m.Called(ctx, orgID, projectID, cycleID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Balance), args.Error(1)
}

func (m *mockBalanceRepo) FindByScopeForUpdate(ctx context.Context, orgID, projectID, cycleID, productID uuid.UUID) (*inventory.Balance, error) {
	args := m.Called(ctx, orgID, projectID, cycleID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Balance), args.Error(1)
}

func (m *mockBalanceRepo) FindAllForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter shared.Filter) ([]inventory.Balance, error) {
	args := m.Called(ctx, orgID, cycleID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Balance), args.Error(1)
}

func (m *mockBalanceRepo) FindNonEmptyForCycle(ctx context.Context, orgID, cycleID uuid.UUID) ([]inventory.Balance, error) {
	args := m.Called(ctx, orgID, cycleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Balance), args.Error(1)
}

func (m *mockBalanceRepo) Save(ctx context.Context, b *inventory.Balance) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockBalanceRepo) CountForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, orgID, cycleID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBalanceRepo) SumValueForCycle(ctx context.Context, orgID, cycleID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, orgID, cycleID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type mockMovementRepo struct {
	mock.Mock
}

func (m *mockMovementRepo) FindByID(ctx context.Context, orgID, id uuid.UUID) (*inventory.Movement, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Movement), args.Error(1)
}

func (m *mockMovementRepo) FindAllForBalance(ctx context.Context, orgID, balanceID uuid.UUID, filter shared.Filter) ([]inventory.Movement, error) {
	args := m.Called(ctx, orgID, balanceID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Movement), args.Error(1)
}

func (m *mockMovementRepo) FindAllForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter shared.Filter) ([]inventory.Movement, error) {
	args := m.Called(ctx, orgID, cycleID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Movement), args.Error(1)
}

func (m *mockMovementRepo) Save(ctx context.Context, mv *inventory.Movement) error {
	args := m.Called(ctx, mv)
	return args.Error(0)
}

func (m *mockMovementRepo) SaveAll(ctx context.Context, ms []*inventory.Movement) error {
	args := m.Called(ctx, ms)
	return args.Error(0)
}

func (m *mockMovementRepo) CountForBalance(ctx context.Context, orgID, balanceID uuid.UUID) (int64, error) {
	args := m.Called(ctx, orgID, balanceID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMovementRepo) CountForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, orgID, cycleID, filter)
	return args.Get(0).(int64), args.Error(1)
}

type closeFixture struct {
	orgID     uuid.UUID
	projectID uuid.UUID
	cycle     *planning.BudgetCycle

	cycles    *mockCycleRepo
	balances  *mockBalanceRepo
	movements *mockMovementRepo
	service   *CycleCloseService
}

func newCloseFixture(t *testing.T) *closeFixture {
	t.Helper()
	orgID, projectID := uuid.New(), uuid.New()
	f := &closeFixture{
		orgID:     orgID,
		projectID: projectID,
		cycle:     newOpenCycle(t, orgID, projectID, 1, nil),
		cycles:    new(mockCycleRepo),
		balances:  new(mockBalanceRepo),
		movements: new(mockMovementRepo),
	}
	f.service = NewCycleCloseService(NewNoOpTransactionScope(f.cycles, f.balances, f.movements))
	return f
}

func (f *closeFixture) closingBalance(t *testing.T, qty, cost string) inventory.Balance {
	t.Helper()
	b, err := inventory.NewBalance(f.orgID, f.projectID, f.cycle.ID, uuid.New())
	require.NoError(t, err)
	require.NoError(t, b.SetOpening(decimal.RequireFromString(qty), decimal.RequireFromString(cost)))
	b.ClearDomainEvents()
	return *b
}

func TestCycleCloseService_Lock_EmptyCycle(t *testing.T) {
	f := newCloseFixture(t)

	f.cycles.On("FindByIDForUpdate", mock.Anything, f.orgID, f.cycle.ID).Return(f.cycle, nil)
	f.balances.On("FindNonEmptyForCycle", mock.Anything, f.orgID, f.cycle.ID).Return([]inventory.Balance{}, nil)
	f.cycles.On("FindSuccessor", mock.Anything, f.orgID, f.cycle.ID).Return(nil, shared.ErrNotFound)
	f.cycles.On("Save", mock.Anything, f.cycle).Return(nil)

	resp, err := f.service.Lock(context.Background(), f.orgID, f.cycle.ID, LockCycleRequest{})
	require.NoError(t, err)

	assert.Equal(t, "LOCKED", resp.LockedCycle.Status)
	assert.Zero(t, resp.CarriedBalances)
	assert.Nil(t, resp.SuccessorCycle)
	assert.True(t, f.cycle.IsLocked())
}

func TestCycleCloseService_Lock_AlreadyLocked(t *testing.T) {
	f := newCloseFixture(t)
	require.NoError(t, f.cycle.Lock())

	f.cycles.On("FindByIDForUpdate", mock.Anything, f.orgID, f.cycle.ID).Return(f.cycle, nil)

	_, err := f.service.Lock(context.Background(), f.orgID, f.cycle.ID, LockCycleRequest{})
	assert.ErrorIs(t, err, shared.ErrCycleLocked)
}

func TestCycleCloseService_Lock_StockWithoutSuccessor(t *testing.T) {
	f := newCloseFixture(t)
	carried := []inventory.Balance{f.closingBalance(t, "10", "2.50")}

	f.cycles.On("FindByIDForUpdate", mock.Anything, f.orgID, f.cycle.ID).Return(f.cycle, nil)
	f.balances.On("FindNonEmptyForCycle", mock.Anything, f.orgID, f.cycle.ID).Return(carried, nil)
	f.cycles.On("FindSuccessor", mock.Anything, f.orgID, f.cycle.ID).Return(nil, shared.ErrNotFound)

	_, err := f.service.Lock(context.Background(), f.orgID, f.cycle.ID, LockCycleRequest{})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NO_SUCCESSOR_CYCLE", domainErr.Code)
	assert.False(t, f.cycle.IsLocked())
}

func TestCycleCloseService_Lock_CarriesIntoNewSuccessor(t *testing.T) {
	f := newCloseFixture(t)
	carried := []inventory.Balance{
		f.closingBalance(t, "10", "2.50"),
		f.closingBalance(t, "4", "7.00"),
	}

	f.cycles.On("FindByIDForUpdate", mock.Anything, f.orgID, f.cycle.ID).Return(f.cycle, nil)
	f.balances.On("FindNonEmptyForCycle", mock.Anything, f.orgID, f.cycle.ID).Return(carried, nil)
	f.cycles.On("FindSuccessor", mock.Anything, f.orgID, f.cycle.ID).Return(nil, shared.ErrNotFound)
	f.cycles.On("Save", mock.Anything, mock.AnythingOfType("*planning.BudgetCycle")).Return(nil)
	// No opening balances exist in the fresh successor yet
	f.balances.On("FindByScopeForUpdate", mock.Anything, f.orgID, f.projectID, mock.Anything, mock.Anything).
		Return(nil, shared.ErrNotFound)
	f.balances.On("Save", mock.Anything, mock.AnythingOfType("*inventory.Balance")).Return(nil)

	var openings []*inventory.Movement
	f.movements.On("SaveAll", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { openings = args.Get(1).([]*inventory.Movement) }).
		Return(nil)

	resp, err := f.service.Lock(context.Background(), f.orgID, f.cycle.ID, LockCycleRequest{
		Successor: &SuccessorSpec{
			Name:     "Q2",
			StartsOn: testDate(2026, time.April, 1),
			EndsOn:   testDate(2026, time.June, 30),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.CarriedBalances)
	require.NotNil(t, resp.SuccessorCycle)
	assert.Equal(t, 2, resp.SuccessorCycle.Sequence)
	require.NotNil(t, resp.SuccessorCycle.PreviousCycleID)
	assert.Equal(t, f.cycle.ID, *resp.SuccessorCycle.PreviousCycleID)

	require.Len(t, openings, 2)
	for i, m := range openings {
		assert.Equal(t, inventory.MovementTypeOpening, m.Type)
		assert.Equal(t, inventory.SourceTypeCarryForward, m.SourceType)
		assert.Equal(t, f.cycle.ID.String(), m.SourceID)
		assert.True(t, m.Quantity.Equal(carried[i].Quantity))
		assert.True(t, m.UnitCost.Equal(carried[i].UnitCost))
		assert.True(t, m.BalanceBefore.IsZero())
	}
}

func TestCycleCloseService_Lock_MergesIntoExistingSuccessorBalance(t *testing.T) {
	f := newCloseFixture(t)
	closing := f.closingBalance(t, "10", "2.00")
	successor := newOpenCycle(t, f.orgID, f.projectID, 2, &f.cycle.ID)

	// Successor already received 10 @ 4.00 of the same product
	existing, err := inventory.NewBalance(f.orgID, f.projectID, successor.ID, closing.ProductID)
	require.NoError(t, err)
	require.NoError(t, existing.SetOpening(decimal.RequireFromString("10"), decimal.RequireFromString("4.00")))
	existing.ClearDomainEvents()

	f.cycles.On("FindByIDForUpdate", mock.Anything, f.orgID, f.cycle.ID).Return(f.cycle, nil)
	f.balances.On("FindNonEmptyForCycle", mock.Anything, f.orgID, f.cycle.ID).Return([]inventory.Balance{closing}, nil)
	f.cycles.On("FindSuccessor", mock.Anything, f.orgID, f.cycle.ID).Return(successor, nil)
	f.cycles.On("Save", mock.Anything, f.cycle).Return(nil)
	f.balances.On("FindByScopeForUpdate", mock.Anything, f.orgID, f.projectID, successor.ID, closing.ProductID).
		Return(existing, nil)
	f.balances.On("Save", mock.Anything, existing).Return(nil)

	var openings []*inventory.Movement
	f.movements.On("SaveAll", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { openings = args.Get(1).([]*inventory.Movement) }).
		Return(nil)

	resp, err := f.service.Lock(context.Background(), f.orgID, f.cycle.ID, LockCycleRequest{})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.CarriedBalances)
	assert.True(t, existing.Quantity.Equal(decimal.RequireFromString("20")))
	assert.True(t, existing.UnitCost.Equal(decimal.RequireFromString("3.00")), "carried stock merges into the weighted average, got %s", existing.UnitCost)

	require.Len(t, openings, 1)
	assert.True(t, openings[0].BalanceBefore.Equal(decimal.RequireFromString("10")))
	assert.True(t, openings[0].BalanceAfter.Equal(decimal.RequireFromString("20")))
}

func TestCycleCloseService_Lock_RejectsLockedSuccessor(t *testing.T) {
	f := newCloseFixture(t)
	successor := newOpenCycle(t, f.orgID, f.projectID, 2, &f.cycle.ID)
	require.NoError(t, successor.Lock())

	f.cycles.On("FindByIDForUpdate", mock.Anything, f.orgID, f.cycle.ID).Return(f.cycle, nil)
	f.balances.On("FindNonEmptyForCycle", mock.Anything, f.orgID, f.cycle.ID).Return([]inventory.Balance{}, nil)
	f.cycles.On("FindSuccessor", mock.Anything, f.orgID, f.cycle.ID).Return(successor, nil)

	_, err := f.service.Lock(context.Background(), f.orgID, f.cycle.ID, LockCycleRequest{})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SUCCESSOR_LOCKED", domainErr.Code)
}
