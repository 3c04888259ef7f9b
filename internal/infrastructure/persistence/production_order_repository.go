package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/inventory"
	"github.com/ledgerline/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductionOrderRepository implements ProductionOrderRepository using GORM
type GormProductionOrderRepository struct {
	db *gorm.DB
}

// NewGormProductionOrderRepository creates a new GormProductionOrderRepository
func NewGormProductionOrderRepository(db *gorm.DB) *GormProductionOrderRepository {
	return &GormProductionOrderRepository{db: db}
}

// FindByID finds a production order with its component lines
func (r *GormProductionOrderRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*inventory.ProductionOrder, error) {
	var po inventory.ProductionOrder
	if err := r.db.WithContext(ctx).
		Preload("Components").
		Where("org_id = ? AND id = ?", orgID, id).
		First(&po).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &po, nil
}

// FindByNumber finds a production order by its document number
func (r *GormProductionOrderRepository) FindByNumber(ctx context.Context, orgID uuid.UUID, number string) (*inventory.ProductionOrder, error) {
	var po inventory.ProductionOrder
	if err := r.db.WithContext(ctx).
		Preload("Components").
		Where("org_id = ? AND number = ?", orgID, number).
		First(&po).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &po, nil
}

// FindAllForCycle finds the production orders of a cycle matching the filter
func (r *GormProductionOrderRepository) FindAllForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter shared.Filter) ([]inventory.ProductionOrder, error) {
	var orders []inventory.ProductionOrder
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.ProductionOrder{}).
			Preload("Components").
			Where("org_id = ? AND cycle_id = ?", orgID, cycleID),
		filter,
	)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save persists a production order with its component lines
func (r *GormProductionOrderRepository) Save(ctx context.Context, po *inventory.ProductionOrder) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(po).Error
}

// CountForCycle counts the production orders of a cycle matching the filter
func (r *GormProductionOrderRepository) CountForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyConditions(
		r.db.WithContext(ctx).Model(&inventory.ProductionOrder{}).
			Where("org_id = ? AND cycle_id = ?", orgID, cycleID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForOrg counts all production orders of an organization, used for
// document numbering
func (r *GormProductionOrderRepository) CountForOrg(ctx context.Context, orgID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&inventory.ProductionOrder{}).
		Where("org_id = ?", orgID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormProductionOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyConditions(query, filter)

	sortField := ValidateSortField(filter.OrderBy, ProductionOrderSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

func (r *GormProductionOrderRepository) applyConditions(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if productID, ok := filter.Filters["product_id"]; ok {
		query = query.Where("product_id = ?", productID)
	}
	return query
}

// Ensure GormProductionOrderRepository implements ProductionOrderRepository
var _ inventory.ProductionOrderRepository = (*GormProductionOrderRepository)(nil)
