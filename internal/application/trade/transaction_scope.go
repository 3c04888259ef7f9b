package trade

import (
	"context"

	"github.com/ledgerline/backend/internal/domain/inventory"
	"github.com/ledgerline/backend/internal/domain/planning"
	"github.com/ledgerline/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to the repositories a sale
// posting touches. Posting issues stock for every goods line, writes the
// ledger rows and fixes the sale's cost of goods sold as one atomic unit.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within a
// transaction. All repositories returned share the same underlying database
// transaction.
type TransactionalRepositories interface {
	// SaleRepo returns the sale repository scoped to the current transaction
	SaleRepo() trade.SaleRepository
	// BalanceRepo returns the balance repository
	BalanceRepo() inventory.BalanceRepository
	// MovementRepo returns the append-only movement ledger repository
	MovementRepo() inventory.MovementRepository
	// CycleRepo returns the budget cycle repository, used to enforce that
	// sales post only into open cycles
	CycleRepo() planning.BudgetCycleRepository
}

// NoOpTransactionScope runs the scoped function without a real transaction.
// Useful in tests where the repositories are mocks.
type NoOpTransactionScope struct {
	saleRepo     trade.SaleRepository
	balanceRepo  inventory.BalanceRepository
	movementRepo inventory.MovementRepository
	cycleRepo    planning.BudgetCycleRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	saleRepo trade.SaleRepository,
	balanceRepo inventory.BalanceRepository,
	movementRepo inventory.MovementRepository,
	cycleRepo planning.BudgetCycleRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		saleRepo:     saleRepo,
		balanceRepo:  balanceRepo,
		movementRepo: movementRepo,
		cycleRepo:    cycleRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// SaleRepo returns the sale repository.
func (s *NoOpTransactionScope) SaleRepo() trade.SaleRepository {
	return s.saleRepo
}

// BalanceRepo returns the balance repository.
func (s *NoOpTransactionScope) BalanceRepo() inventory.BalanceRepository {
	return s.balanceRepo
}

// MovementRepo returns the movement repository.
func (s *NoOpTransactionScope) MovementRepo() inventory.MovementRepository {
	return s.movementRepo
}

// CycleRepo returns the budget cycle repository.
func (s *NoOpTransactionScope) CycleRepo() planning.BudgetCycleRepository {
	return s.cycleRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
