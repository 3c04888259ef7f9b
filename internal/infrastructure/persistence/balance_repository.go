package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/inventory"
	"github.com/ledgerline/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBalanceRepository implements BalanceRepository using GORM
type GormBalanceRepository struct {
	db *gorm.DB
}

// NewGormBalanceRepository creates a new GormBalanceRepository
func NewGormBalanceRepository(db *gorm.DB) *GormBalanceRepository {
	return &GormBalanceRepository{db: db}
}

// FindByID finds a balance by ID within an organization
func (r *GormBalanceRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*inventory.Balance, error) {
	var b inventory.Balance
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindByScope finds the balance of a product within a cycle
func (r *GormBalanceRepository) FindByScope(ctx context.Context, orgID, projectID, cycleID, productID uuid.UUID) (*inventory.Balance, error) {
	var b inventory.Balance
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND project_id = ? AND cycle_id = ? AND product_id = ?",
			orgID, projectID, cycleID, productID).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindByScopeForUpdate locks the balance row with SELECT ... FOR UPDATE.
// Callers must run inside a transaction scope or the lock is released
// immediately.
func (r *GormBalanceRepository) FindByScopeForUpdate(ctx context.Context, orgID, projectID, cycleID, productID uuid.UUID) (*inventory.Balance, error) {
	var b inventory.Balance
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("org_id = ? AND project_id = ? AND cycle_id = ? AND product_id = ?",
			orgID, projectID, cycleID, productID).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindAllForCycle finds the balances of a cycle matching the filter
func (r *GormBalanceRepository) FindAllForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter shared.Filter) ([]inventory.Balance, error) {
	var balances []inventory.Balance
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.Balance{}).
			Where("org_id = ? AND cycle_id = ?", orgID, cycleID),
		filter,
	)
	if err := query.Find(&balances).Error; err != nil {
		return nil, err
	}
	return balances, nil
}

// FindNonEmptyForCycle returns every balance in the cycle holding stock,
// ordered by product for deterministic carry-forward.
func (r *GormBalanceRepository) FindNonEmptyForCycle(ctx context.Context, orgID, cycleID uuid.UUID) ([]inventory.Balance, error) {
	var balances []inventory.Balance
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND cycle_id = ? AND quantity > 0", orgID, cycleID).
		Order("product_id ASC").
		Find(&balances).Error; err != nil {
		return nil, err
	}
	return balances, nil
}

// Save creates or updates a balance
func (r *GormBalanceRepository) Save(ctx context.Context, b *inventory.Balance) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// CountForCycle counts the balances of a cycle matching the filter
func (r *GormBalanceRepository) CountForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyConditions(
		r.db.WithContext(ctx).Model(&inventory.Balance{}).
			Where("org_id = ? AND cycle_id = ?", orgID, cycleID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumValueForCycle totals quantity * unit_cost over the balances of a cycle
func (r *GormBalanceRepository) SumValueForCycle(ctx context.Context, orgID, cycleID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&inventory.Balance{}).
		Select("COALESCE(SUM(quantity * unit_cost), 0) as total").
		Where("org_id = ? AND cycle_id = ?", orgID, cycleID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

func (r *GormBalanceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyConditions(query, filter)

	sortField := ValidateSortField(filter.OrderBy, BalanceSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

func (r *GormBalanceRepository) applyConditions(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "project_id":
			query = query.Where("project_id = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "non_empty":
			if value == true {
				query = query.Where("quantity > 0")
			}
		}
	}
	return query
}

// Ensure GormBalanceRepository implements BalanceRepository
var _ inventory.BalanceRepository = (*GormBalanceRepository)(nil)
