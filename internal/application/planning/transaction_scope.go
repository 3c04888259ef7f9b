package planning

import (
	"context"

	"github.com/ledgerline/backend/internal/domain/inventory"
	"github.com/ledgerline/backend/internal/domain/planning"
)

// TransactionScope provides transactional access to the repositories the
// cycle lock touches. Locking a cycle and carrying its balances forward is
// a single atomic unit: either the predecessor is locked and every opening
// position exists in the successor, or nothing changed.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within a
// transaction. All repositories returned share the same underlying database
// transaction.
type TransactionalRepositories interface {
	// CycleRepo returns the budget cycle repository scoped to the current transaction
	CycleRepo() planning.BudgetCycleRepository
	// BalanceRepo returns the balance repository
	BalanceRepo() inventory.BalanceRepository
	// MovementRepo returns the append-only movement ledger repository
	MovementRepo() inventory.MovementRepository
}

// NoOpTransactionScope runs the scoped function without a real transaction.
// Useful in tests where the repositories are mocks.
type NoOpTransactionScope struct {
	cycleRepo    planning.BudgetCycleRepository
	balanceRepo  inventory.BalanceRepository
	movementRepo inventory.MovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	cycleRepo planning.BudgetCycleRepository,
	balanceRepo inventory.BalanceRepository,
	movementRepo inventory.MovementRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		cycleRepo:    cycleRepo,
		balanceRepo:  balanceRepo,
		movementRepo: movementRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// CycleRepo returns the budget cycle repository.
func (s *NoOpTransactionScope) CycleRepo() planning.BudgetCycleRepository {
	return s.cycleRepo
}

// BalanceRepo returns the balance repository.
func (s *NoOpTransactionScope) BalanceRepo() inventory.BalanceRepository {
	return s.balanceRepo
}

// MovementRepo returns the movement repository.
func (s *NoOpTransactionScope) MovementRepo() inventory.MovementRepository {
	return s.movementRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
