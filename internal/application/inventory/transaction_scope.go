package inventory

import (
	"context"

	"github.com/ledgerline/backend/internal/domain/inventory"
	"github.com/ledgerline/backend/internal/domain/planning"
)

// TransactionScope provides transactional access to the repositories a stock
// mutation touches. Every write path in this package runs inside a scope so
// the balance update, the ledger row and any document state change commit or
// roll back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within a
// transaction. All repositories returned share the same underlying database
// transaction.
type TransactionalRepositories interface {
	// BalanceRepo returns the balance repository scoped to the current transaction
	BalanceRepo() inventory.BalanceRepository
	// MovementRepo returns the append-only movement ledger repository
	MovementRepo() inventory.MovementRepository
	// ProductionRepo returns the production order repository
	ProductionRepo() inventory.ProductionOrderRepository
	// CycleRepo returns the budget cycle repository, used to enforce that
	// mutations land only in open cycles
	CycleRepo() planning.BudgetCycleRepository
}

// NoOpTransactionScope runs the scoped function without a real transaction.
// Useful in tests where the repositories are mocks.
type NoOpTransactionScope struct {
	balanceRepo    inventory.BalanceRepository
	movementRepo   inventory.MovementRepository
	productionRepo inventory.ProductionOrderRepository
	cycleRepo      planning.BudgetCycleRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	balanceRepo inventory.BalanceRepository,
	movementRepo inventory.MovementRepository,
	productionRepo inventory.ProductionOrderRepository,
	cycleRepo planning.BudgetCycleRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		balanceRepo:    balanceRepo,
		movementRepo:   movementRepo,
		productionRepo: productionRepo,
		cycleRepo:      cycleRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// BalanceRepo returns the balance repository.
func (s *NoOpTransactionScope) BalanceRepo() inventory.BalanceRepository {
	return s.balanceRepo
}

// MovementRepo returns the movement repository.
func (s *NoOpTransactionScope) MovementRepo() inventory.MovementRepository {
	return s.movementRepo
}

// ProductionRepo returns the production order repository.
func (s *NoOpTransactionScope) ProductionRepo() inventory.ProductionOrderRepository {
	return s.productionRepo
}

// CycleRepo returns the budget cycle repository.
func (s *NoOpTransactionScope) CycleRepo() planning.BudgetCycleRepository {
	return s.cycleRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
