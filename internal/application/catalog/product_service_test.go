package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/backend/internal/domain/catalog"
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

func newTestProduct(t *testing.T, orgID uuid.UUID, sku string, kind catalog.ProductKind) *catalog.Product {
	t.Helper()
	price, err := valueobject.NewMoneyFromString("150.00", valueobject.DefaultCurrency)
	require.NoError(t, err)
	p, err := catalog.NewProduct(orgID, sku, "Oak Table", "pcs", kind, price)
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func TestProductService_Create(t *testing.T) {
	orgID := uuid.New()
	repo := new(mockProductRepo)
	service := NewProductService(repo)

	repo.On("ExistsBySKU", mock.Anything, orgID, "tbl-01").Return(false, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	resp, err := service.Create(context.Background(), orgID, CreateProductRequest{
		SKU:          "tbl-01",
		Name:         "Oak Table",
		Description:  "Solid oak, seats six",
		Kind:         "GOODS",
		SellingPrice: decimal.RequireFromString("150.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, "TBL-01", resp.SKU, "SKU is normalized to upper case")
	assert.Equal(t, "pcs", resp.Unit, "unit defaults when omitted")
	assert.Equal(t, "ACTIVE", resp.Status)
	assert.Equal(t, "Solid oak, seats six", resp.Description)
}

func TestProductService_Create_DuplicateSKU(t *testing.T) {
	orgID := uuid.New()
	repo := new(mockProductRepo)
	service := NewProductService(repo)

	repo.On("ExistsBySKU", mock.Anything, orgID, "TBL-01").Return(true, nil)

	_, err := service.Create(context.Background(), orgID, CreateProductRequest{
		SKU:          "TBL-01",
		Name:         "Oak Table",
		Kind:         "GOODS",
		SellingPrice: decimal.RequireFromString("150.00"),
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SKU_TAKEN", domainErr.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_SetBOM(t *testing.T) {
	orgID := uuid.New()
	repo := new(mockProductRepo)
	service := NewProductService(repo)

	product := newTestProduct(t, orgID, "TBL-01", catalog.ProductKindGoods)
	legs := newTestProduct(t, orgID, "LEG-01", catalog.ProductKindGoods)
	top := newTestProduct(t, orgID, "TOP-01", catalog.ProductKindGoods)

	repo.On("FindByID", mock.Anything, orgID, product.ID).Return(product, nil)
	repo.On("FindByIDs", mock.Anything, orgID, []uuid.UUID{legs.ID, top.ID}).
		Return([]catalog.Product{*legs, *top}, nil)
	repo.On("Save", mock.Anything, product).Return(nil)

	resp, err := service.SetBOM(context.Background(), orgID, product.ID, SetBOMRequest{
		Lines: []BOMLineRequest{
			{ComponentID: legs.ID, Quantity: decimal.RequireFromString("4")},
			{ComponentID: top.ID, Quantity: decimal.RequireFromString("1")},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.BOM, 2)
	assert.Equal(t, legs.ID, resp.BOM[0].ComponentID)
	assert.True(t, resp.BOM[0].Quantity.Equal(decimal.RequireFromString("4")))
}

func TestProductService_SetBOM_ComponentChecks(t *testing.T) {
	orgID := uuid.New()

	product := newTestProduct(t, orgID, "TBL-01", catalog.ProductKindGoods)
	assembly := newTestProduct(t, orgID, "SVC-01", catalog.ProductKindService)

	cases := []struct {
		name       string
		components []catalog.Product
		code       string
	}{
		{"missing component", nil, "COMPONENT_NOT_FOUND"},
		{"service component", []catalog.Product{*assembly}, "COMPONENT_NOT_GOODS"},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockProductRepo)
			service := NewProductService(repo)
			repo.On("FindByID", mock.Anything, orgID, product.ID).Return(product, nil)
			repo.On("FindByIDs", mock.Anything, orgID, []uuid.UUID{assembly.ID}).
				Return(tt.components, nil)

			_, err := service.SetBOM(context.Background(), orgID, product.ID, SetBOMRequest{
				Lines: []BOMLineRequest{
					{ComponentID: assembly.ID, Quantity: decimal.RequireFromString("1")},
				},
			})
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.code, domainErr.Code)
			repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestProductService_DeactivateActivate(t *testing.T) {
	orgID := uuid.New()
	repo := new(mockProductRepo)
	service := NewProductService(repo)

	product := newTestProduct(t, orgID, "TBL-01", catalog.ProductKindGoods)
	repo.On("FindByID", mock.Anything, orgID, product.ID).Return(product, nil)
	repo.On("Save", mock.Anything, product).Return(nil)

	resp, err := service.Deactivate(context.Background(), orgID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "INACTIVE", resp.Status)

	// Deactivating twice is an invalid transition
	_, err = service.Deactivate(context.Background(), orgID, product.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	resp, err = service.Activate(context.Background(), orgID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", resp.Status)
}
