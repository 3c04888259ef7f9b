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

// GormMovementRepository implements MovementRepository using GORM. The
// movement ledger is append-only: rows are only ever inserted.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// FindByID finds a movement by ID within an organization
func (r *GormMovementRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*inventory.Movement, error) {
	var m inventory.Movement
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindAllForBalance finds the movements of one balance in the order the
// caller asked for; the application passes occurred_at ascending so the
// ledger reads in occurrence order.
func (r *GormMovementRepository) FindAllForBalance(ctx context.Context, orgID, balanceID uuid.UUID, filter shared.Filter) ([]inventory.Movement, error) {
	var movements []inventory.Movement
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.Movement{}).
			Where("org_id = ? AND balance_id = ?", orgID, balanceID),
		filter,
	)
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindAllForCycle finds the movements recorded in a cycle
func (r *GormMovementRepository) FindAllForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter shared.Filter) ([]inventory.Movement, error) {
	var movements []inventory.Movement
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.Movement{}).
			Where("org_id = ? AND cycle_id = ?", orgID, cycleID),
		filter,
	)
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// Save inserts a new movement row. Movements are never updated.
func (r *GormMovementRepository) Save(ctx context.Context, m *inventory.Movement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// SaveAll inserts a batch of movement rows
func (r *GormMovementRepository) SaveAll(ctx context.Context, ms []*inventory.Movement) error {
	if len(ms) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(ms).Error
}

// CountForBalance counts the movements of a balance
func (r *GormMovementRepository) CountForBalance(ctx context.Context, orgID, balanceID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&inventory.Movement{}).
		Where("org_id = ? AND balance_id = ?", orgID, balanceID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForCycle counts the movements of a cycle matching the filter
func (r *GormMovementRepository) CountForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyConditions(
		r.db.WithContext(ctx).Model(&inventory.Movement{}).
			Where("org_id = ? AND cycle_id = ?", orgID, cycleID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormMovementRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyConditions(query, filter)

	sortField := ValidateSortField(filter.OrderBy, MovementSortFields, "occurred_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	// created_at breaks ties between movements sharing an occurred_at stamp
	query = query.Order(fmt.Sprintf("%s %s, created_at %s", sortField, sortOrder, sortOrder))

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

func (r *GormMovementRepository) applyConditions(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "source_type":
			query = query.Where("source_type = ?", value)
		case "source_id":
			query = query.Where("source_id = ?", value)
		case "occurred_from":
			query = query.Where("occurred_at >= ?", value)
		case "occurred_to":
			query = query.Where("occurred_at <= ?", value)
		}
	}
	return query
}

// Ensure GormMovementRepository implements MovementRepository
var _ inventory.MovementRepository = (*GormMovementRepository)(nil)
