package persistence

import (
	"context"

	appplanning "github.com/ledgerline/backend/internal/application/planning"
	"github.com/ledgerline/backend/internal/domain/inventory"
	"github.com/ledgerline/backend/internal/domain/planning"
	"gorm.io/gorm"
)

// GormPlanningTransactionScope implements the planning TransactionScope
// using GORM transactions. The cycle lock and the carry-forward into the
// successor commit or roll back together.
type GormPlanningTransactionScope struct {
	db *gorm.DB
}

// NewGormPlanningTransactionScope creates a new GormPlanningTransactionScope.
func NewGormPlanningTransactionScope(db *gorm.DB) *GormPlanningTransactionScope {
	return &GormPlanningTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormPlanningTransactionScope) Execute(ctx context.Context, fn func(repos appplanning.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormPlanningRepositories{tx: tx}
		return fn(repos)
	})
}

// gormPlanningRepositories provides the planning repositories bound to one transaction.
type gormPlanningRepositories struct {
	tx *gorm.DB
}

// CycleRepo returns the budget cycle repository scoped to the current transaction.
func (r *gormPlanningRepositories) CycleRepo() planning.BudgetCycleRepository {
	return NewGormBudgetCycleRepository(r.tx)
}

// BalanceRepo returns the balance repository scoped to the current transaction.
func (r *gormPlanningRepositories) BalanceRepo() inventory.BalanceRepository {
	return NewGormBalanceRepository(r.tx)
}

// MovementRepo returns the movement ledger repository scoped to the current transaction.
func (r *gormPlanningRepositories) MovementRepo() inventory.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

// Ensure GormPlanningTransactionScope implements TransactionScope
var _ appplanning.TransactionScope = (*GormPlanningTransactionScope)(nil)

// Ensure gormPlanningRepositories implements TransactionalRepositories
var _ appplanning.TransactionalRepositories = (*gormPlanningRepositories)(nil)
