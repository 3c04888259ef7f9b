package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/planning"
	"github.com/ledgerline/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBudgetCycleRepository implements BudgetCycleRepository using GORM
type GormBudgetCycleRepository struct {
	db *gorm.DB
}

// NewGormBudgetCycleRepository creates a new GormBudgetCycleRepository
func NewGormBudgetCycleRepository(db *gorm.DB) *GormBudgetCycleRepository {
	return &GormBudgetCycleRepository{db: db}
}

// FindByID finds a budget cycle by ID within an organization
func (r *GormBudgetCycleRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*planning.BudgetCycle, error) {
	return r.findByID(r.db.WithContext(ctx), orgID, id)
}

// FindByIDForShare finds a budget cycle holding FOR SHARE on its row until
// the surrounding transaction commits
func (r *GormBudgetCycleRepository) FindByIDForShare(ctx context.Context, orgID, id uuid.UUID) (*planning.BudgetCycle, error) {
	return r.findByID(
		r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "SHARE"}),
		orgID, id,
	)
}

// FindByIDForUpdate finds a budget cycle holding FOR UPDATE on its row,
// blocking until every share holder has committed
func (r *GormBudgetCycleRepository) FindByIDForUpdate(ctx context.Context, orgID, id uuid.UUID) (*planning.BudgetCycle, error) {
	return r.findByID(
		r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}),
		orgID, id,
	)
}

func (r *GormBudgetCycleRepository) findByID(query *gorm.DB, orgID, id uuid.UUID) (*planning.BudgetCycle, error) {
	var c planning.BudgetCycle
	if err := query.
		Where("org_id = ? AND id = ?", orgID, id).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindOpenForProject finds the single open cycle of a project, if any
func (r *GormBudgetCycleRepository) FindOpenForProject(ctx context.Context, orgID, projectID uuid.UUID) (*planning.BudgetCycle, error) {
	var c planning.BudgetCycle
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND project_id = ? AND status = ?", orgID, projectID, planning.CycleStatusOpen).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindBySequence finds the cycle holding a sequence number within a project
func (r *GormBudgetCycleRepository) FindBySequence(ctx context.Context, orgID, projectID uuid.UUID, sequence int) (*planning.BudgetCycle, error) {
	var c planning.BudgetCycle
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND project_id = ? AND sequence = ?", orgID, projectID, sequence).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindSuccessor finds the cycle whose previous_cycle_id points at the given cycle
func (r *GormBudgetCycleRepository) FindSuccessor(ctx context.Context, orgID, previousCycleID uuid.UUID) (*planning.BudgetCycle, error) {
	var c planning.BudgetCycle
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND previous_cycle_id = ?", orgID, previousCycleID).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindAllForProject finds the cycles of a project matching the filter
func (r *GormBudgetCycleRepository) FindAllForProject(ctx context.Context, orgID, projectID uuid.UUID, filter shared.Filter) ([]planning.BudgetCycle, error) {
	var cycles []planning.BudgetCycle
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&planning.BudgetCycle{}).
			Where("org_id = ? AND project_id = ?", orgID, projectID),
		filter,
	)
	if err := query.Find(&cycles).Error; err != nil {
		return nil, err
	}
	return cycles, nil
}

// Save creates or updates a budget cycle
func (r *GormBudgetCycleRepository) Save(ctx context.Context, c *planning.BudgetCycle) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// CountForProject counts the cycles of a project
func (r *GormBudgetCycleRepository) CountForProject(ctx context.Context, orgID, projectID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&planning.BudgetCycle{}).
		Where("org_id = ? AND project_id = ?", orgID, projectID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormBudgetCycleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	sortField := ValidateSortField(filter.OrderBy, CycleSortFields, "sequence")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// Ensure GormBudgetCycleRepository implements BudgetCycleRepository
var _ planning.BudgetCycleRepository = (*GormBudgetCycleRepository)(nil)
