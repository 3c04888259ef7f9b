package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/backend/internal/domain/catalog"
	"github.com/ledgerline/backend/internal/domain/inventory"
	"github.com/ledgerline/backend/internal/domain/shared"
	"github.com/ledgerline/backend/internal/domain/shared/valueobject"
)

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) FindByID(ctx context.Context, orgID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *mockProductRepo) FindBySKU(ctx context.Context, orgID uuid.UUID, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, orgID, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *mockProductRepo) FindByIDs(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, orgID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *mockProductRepo) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, orgID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *mockProductRepo) Save(ctx context.Context, p *catalog.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProductRepo) CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProductRepo) ExistsBySKU(ctx context.Context, orgID uuid.UUID, sku string) (bool, error) {
	args := m.Called(ctx, orgID, sku)
	return args.Bool(0), args.Error(1)
}

type productionFixture struct {
	*inventoryFixture
	products *mockProductRepo
	service  *ProductionService
}

func newProductionFixture(t *testing.T) *productionFixture {
	t.Helper()
	inv := newInventoryFixture(t)
	f := &productionFixture{
		inventoryFixture: inv,
		products:         new(mockProductRepo),
	}
	scope := NewNoOpTransactionScope(inv.balances, inv.movements, inv.productions, inv.cycles)
	f.service = NewProductionService(scope, f.products, inv.productions)
	return f
}

func (f *productionFixture) goodsWithBOM(t *testing.T, components ...uuid.UUID) *catalog.Product {
	t.Helper()
	price, err := valueobject.NewMoneyFromString("150.00", valueobject.DefaultCurrency)
	require.NoError(t, err)
	p, err := catalog.NewProduct(f.orgID, "TBL-01", "Oak Table", "pcs", catalog.ProductKindGoods, price)
	require.NoError(t, err)

	lines := make([]catalog.BOMLine, len(components))
	for i, id := range components {
		lines[i] = catalog.BOMLine{ComponentID: id, Quantity: decimal.NewFromInt(int64(i) + 1)}
	}
	require.NoError(t, p.SetBOM(lines))
	p.ClearDomainEvents()
	return p
}

func (f *productionFixture) componentBalance(t *testing.T, componentID uuid.UUID, qty, cost string) *inventory.Balance {
	t.Helper()
	b, err := inventory.NewBalance(f.orgID, f.projectID, f.cycle.ID, componentID)
	require.NoError(t, err)
	require.NoError(t, b.SetOpening(decimal.RequireFromString(qty), decimal.RequireFromString(cost)))
	b.ClearDomainEvents()
	return b
}

func TestProductionService_Create_ScalesBOM(t *testing.T) {
	f := newProductionFixture(t)
	legs, top := uuid.New(), uuid.New()
	product := f.goodsWithBOM(t, legs, top) // 1 leg-unit and 2 top-units per table

	f.products.On("FindByID", mock.Anything, f.orgID, product.ID).Return(product, nil)
	f.expectOpenCycle()
	f.productions.On("CountForOrg", mock.Anything, f.orgID).Return(int64(0), nil)

	var saved *inventory.ProductionOrder
	f.productions.On("Save", mock.Anything, mock.AnythingOfType("*inventory.ProductionOrder")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*inventory.ProductionOrder) }).
		Return(nil)

	resp, err := f.service.Create(context.Background(), f.orgID, CreateProductionOrderRequest{
		ProjectID:      f.projectID,
		CycleID:        f.cycle.ID,
		ProductID:      product.ID,
		OutputQuantity: decimal.RequireFromString("5"),
	})
	require.NoError(t, err)

	assert.Equal(t, "PRD-000001", resp.Number)
	require.NotNil(t, saved)
	require.Len(t, saved.Components, 2)
	assert.True(t, saved.Components[0].Quantity.Equal(decimal.RequireFromString("5")), "1 per unit * 5")
	assert.True(t, saved.Components[1].Quantity.Equal(decimal.RequireFromString("10")), "2 per unit * 5")
}

func TestProductionService_Create_Guards(t *testing.T) {
	f := newProductionFixture(t)
	price, err := valueobject.NewMoneyFromString("40.00", valueobject.DefaultCurrency)
	require.NoError(t, err)

	service, err := catalog.NewProduct(f.orgID, "SVC-01", "Assembly", "h", catalog.ProductKindService, price)
	require.NoError(t, err)
	noBOM, err := catalog.NewProduct(f.orgID, "SCR-01", "Screws", "box", catalog.ProductKindGoods, price)
	require.NoError(t, err)
	inactive := f.goodsWithBOM(t, uuid.New())
	require.NoError(t, inactive.Deactivate())

	cases := []struct {
		name    string
		product *catalog.Product
		code    string
	}{
		{"service product", service, "NOT_GOODS"},
		{"goods without bom", noBOM, "NO_BOM"},
		{"inactive product", inactive, "PRODUCT_INACTIVE"},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			f.products.On("FindByID", mock.Anything, f.orgID, tt.product.ID).Return(tt.product, nil).Once()

			_, err := f.service.Create(context.Background(), f.orgID, CreateProductionOrderRequest{
				ProjectID:      f.projectID,
				CycleID:        f.cycle.ID,
				ProductID:      tt.product.ID,
				OutputQuantity: decimal.RequireFromString("1"),
			})
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.code, domainErr.Code)
		})
	}
}

func TestProductionService_Complete(t *testing.T) {
	f := newProductionFixture(t)
	legs, top := uuid.New(), uuid.New()
	productID := uuid.New()

	po, err := inventory.NewProductionOrder(f.orgID, f.projectID, f.cycle.ID, productID, "PRD-000001", decimal.RequireFromString("5"))
	require.NoError(t, err)
	require.NoError(t, po.AddComponent(legs, decimal.RequireFromString("20")))
	require.NoError(t, po.AddComponent(top, decimal.RequireFromString("5")))
	po.ClearDomainEvents()

	legBalance := f.componentBalance(t, legs, "30", "1.50")
	topBalance := f.componentBalance(t, top, "8", "8.00")

	f.productions.On("FindByID", mock.Anything, f.orgID, po.ID).Return(po, nil)
	f.expectOpenCycle()
	f.balances.On("FindByScopeForUpdate", mock.Anything, f.orgID, f.projectID, f.cycle.ID, legs).Return(legBalance, nil)
	f.balances.On("FindByScopeForUpdate", mock.Anything, f.orgID, f.projectID, f.cycle.ID, top).Return(topBalance, nil)
	// The finished product has no balance in the cycle yet
	f.balances.On("FindByScopeForUpdate", mock.Anything, f.orgID, f.projectID, f.cycle.ID, productID).
		Return(nil, shared.ErrNotFound)
	f.balances.On("Save", mock.Anything, mock.AnythingOfType("*inventory.Balance")).Return(nil)

	var movements []*inventory.Movement
	f.movements.On("Save", mock.Anything, mock.AnythingOfType("*inventory.Movement")).
		Run(func(args mock.Arguments) { movements = append(movements, args.Get(1).(*inventory.Movement)) }).
		Return(nil)
	f.productions.On("Save", mock.Anything, po).Return(nil)

	resp, err := f.service.Complete(context.Background(), f.orgID, po.ID)
	require.NoError(t, err)

	// 20 legs @ 1.50 + 5 tops @ 8.00 = 70.00 across 5 units
	assert.Equal(t, "COMPLETED", resp.Status)
	assert.True(t, resp.TotalCost.Equal(decimal.RequireFromString("70.00")))
	assert.True(t, resp.UnitCost.Equal(decimal.RequireFromString("14.00")))

	assert.True(t, legBalance.Quantity.Equal(decimal.RequireFromString("10")))
	assert.True(t, topBalance.Quantity.Equal(decimal.RequireFromString("3")))

	require.Len(t, movements, 3, "two consumptions and one receipt")
	assert.Equal(t, inventory.MovementTypeProductionOut, movements[0].Type)
	assert.Equal(t, inventory.MovementTypeProductionOut, movements[1].Type)
	assert.Equal(t, inventory.MovementTypeProductionIn, movements[2].Type)
	assert.Equal(t, inventory.SourceTypeProductionOrder, movements[2].SourceType)
	assert.Equal(t, po.Number, movements[2].SourceID)
	assert.True(t, movements[2].Quantity.Equal(decimal.RequireFromString("5")))
	assert.True(t, movements[2].UnitCost.Equal(decimal.RequireFromString("14.00")))
}

func TestProductionService_Complete_InsufficientComponentStock(t *testing.T) {
	f := newProductionFixture(t)
	legs := uuid.New()

	po, err := inventory.NewProductionOrder(f.orgID, f.projectID, f.cycle.ID, uuid.New(), "PRD-000002", decimal.RequireFromString("5"))
	require.NoError(t, err)
	require.NoError(t, po.AddComponent(legs, decimal.RequireFromString("20")))
	po.ClearDomainEvents()

	short := f.componentBalance(t, legs, "10", "1.50")

	f.productions.On("FindByID", mock.Anything, f.orgID, po.ID).Return(po, nil)
	f.expectOpenCycle()
	f.balances.On("FindByScopeForUpdate", mock.Anything, f.orgID, f.projectID, f.cycle.ID, legs).Return(short, nil)

	_, err = f.service.Complete(context.Background(), f.orgID, po.ID)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.Equal(t, inventory.ProductionOrderStatusDraft, po.Status)
}

func TestProductionService_Cancel(t *testing.T) {
	f := newProductionFixture(t)
	po, err := inventory.NewProductionOrder(f.orgID, f.projectID, f.cycle.ID, uuid.New(), "PRD-000003", decimal.RequireFromString("1"))
	require.NoError(t, err)

	f.productions.On("FindByID", mock.Anything, f.orgID, po.ID).Return(po, nil)
	f.productions.On("Save", mock.Anything, po).Return(nil)

	require.NoError(t, f.service.Cancel(context.Background(), f.orgID, po.ID))
	assert.Equal(t, inventory.ProductionOrderStatusCancelled, po.Status)

	assert.Error(t, f.service.Cancel(context.Background(), f.orgID, po.ID))
}
