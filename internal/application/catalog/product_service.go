package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/catalog"
	"github.com/ledgerline/backend/internal/domain/shared"
	"github.com/ledgerline/backend/internal/domain/shared/valueobject"
)

// ProductService handles product lifecycle and bill of materials operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new product. The SKU must be unique within the organization.
func (s *ProductService) Create(ctx context.Context, orgID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsBySKU(ctx, orgID, req.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("SKU_TAKEN", "A product with this SKU already exists")
	}

	price, err := valueobject.NewMoney(req.SellingPrice, valueobject.DefaultCurrency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PRICE", "Invalid selling price")
	}
	product, err := catalog.NewProduct(orgID, req.SKU, req.Name, req.Unit, catalog.ProductKind(req.Kind), price)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product.GetDomainEvents()...)
	product.ClearDomainEvents()

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product with its bill of materials
func (s *ProductService) GetByID(ctx context.Context, orgID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetBySKU retrieves a product by its SKU
func (s *ProductService) GetBySKU(ctx context.Context, orgID uuid.UUID, sku string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, orgID, sku)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves the products of an organization
func (s *ProductService) List(ctx context.Context, orgID uuid.UUID, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Kind != "" {
		domainFilter.Filters["kind"] = filter.Kind
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	domainFilter.Normalize()

	products, err := s.productRepo.FindAllForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.CountForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToProductResponses(products), total, nil
}

// Update changes the mutable fields of a product
func (s *ProductService) Update(ctx context.Context, orgID, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	price, err := valueobject.NewMoney(req.SellingPrice, valueobject.DefaultCurrency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PRICE", "Invalid selling price")
	}
	if err := product.Update(req.Name, req.Description, price); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// SetBOM replaces the bill of materials of a product. Every component must
// exist and be a stock-tracked good.
func (s *ProductService) SetBOM(ctx context.Context, orgID, id uuid.UUID, req SetBOMRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	componentIDs := make([]uuid.UUID, len(req.Lines))
	lines := make([]catalog.BOMLine, len(req.Lines))
	for i, line := range req.Lines {
		componentIDs[i] = line.ComponentID
		lines[i] = catalog.BOMLine{
			ComponentID: line.ComponentID,
			Quantity:    line.Quantity,
		}
	}

	components, err := s.productRepo.FindByIDs(ctx, orgID, componentIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(components))
	for i := range components {
		byID[components[i].ID] = &components[i]
	}
	for _, componentID := range componentIDs {
		component, ok := byID[componentID]
		if !ok {
			return nil, shared.NewDomainError("COMPONENT_NOT_FOUND", "BOM component does not exist")
		}
		if !component.IsStockTracked() {
			return nil, shared.NewDomainError("COMPONENT_NOT_GOODS", "BOM components must be stock-tracked goods")
		}
	}

	if err := product.SetBOM(lines); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product.GetDomainEvents()...)
	product.ClearDomainEvents()

	response := ToProductResponse(product)
	return &response, nil
}

// Deactivate removes a product from active use
func (s *ProductService) Deactivate(ctx context.Context, orgID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if err := product.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product.GetDomainEvents()...)
	product.ClearDomainEvents()

	response := ToProductResponse(product)
	return &response, nil
}

// Activate re-enables an inactive product
func (s *ProductService) Activate(ctx context.Context, orgID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if err := product.Activate(); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

func (s *ProductService) publishEvents(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
