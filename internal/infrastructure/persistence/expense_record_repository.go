package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/finance"
	"github.com/ledgerline/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormExpenseRepository implements ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// FindByID finds an expense record by ID within an organization
func (r *GormExpenseRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*finance.ExpenseRecord, error) {
	var e finance.ExpenseRecord
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// FindAllForCycle finds the expense records of a cycle matching the filter
func (r *GormExpenseRepository) FindAllForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter shared.Filter) ([]finance.ExpenseRecord, error) {
	var records []finance.ExpenseRecord
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&finance.ExpenseRecord{}).
			Where("org_id = ? AND cycle_id = ?", orgID, cycleID),
		filter,
	)
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Save creates or updates an expense record
func (r *GormExpenseRepository) Save(ctx context.Context, e *finance.ExpenseRecord) error {
	return r.db.WithContext(ctx).Save(e).Error
}

// CountForCycle counts the expense records of a cycle matching the filter
func (r *GormExpenseRepository) CountForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyConditions(
		r.db.WithContext(ctx).Model(&finance.ExpenseRecord{}).
			Where("org_id = ? AND cycle_id = ?", orgID, cycleID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumForCycle totals approved expense amounts for a cycle, optionally
// restricted to one category
func (r *GormExpenseRepository) SumForCycle(ctx context.Context, orgID, cycleID uuid.UUID, category *finance.ExpenseCategory) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	query := r.db.WithContext(ctx).Model(&finance.ExpenseRecord{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("org_id = ? AND cycle_id = ? AND status = ?", orgID, cycleID, finance.ExpenseStatusApproved)
	if category != nil {
		query = query.Where("category = ?", *category)
	}
	if err := query.Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

func (r *GormExpenseRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyConditions(query, filter)

	sortField := ValidateSortField(filter.OrderBy, ExpenseSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

func (r *GormExpenseRepository) applyConditions(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("description ILIKE ?", pattern)
	}
	if category, ok := filter.Filters["category"]; ok {
		query = query.Where("category = ?", category)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	return query
}

// Ensure GormExpenseRepository implements ExpenseRepository
var _ finance.ExpenseRepository = (*GormExpenseRepository)(nil)
