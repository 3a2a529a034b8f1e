package workshop

import (
	"context"

	"github.com/marealta/backend/internal/domain/finance"
	"github.com/marealta/backend/internal/domain/inventory"
	"github.com/marealta/backend/internal/domain/workshop"
)

// TransactionScope provides transactional access to the repositories the
// order workflow touches. Completing an order writes the order, the part
// stock levels, the movement ledger and the financial ledger; all of it
// commits or rolls back as one unit.
type TransactionScope interface {
	// Execute runs fn inside a database transaction. An error from fn
	// rolls the transaction back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories bound to the
// current transaction.
type TransactionalRepositories interface {
	OrderRepo() workshop.ServiceOrderRepository
	PartRepo() inventory.PartRepository
	MovementRepo() inventory.StockMovementRepository
	FinanceRepo() finance.TransactionRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Service tests use it with mock repositories.
type NoOpTransactionScope struct {
	orderRepo    workshop.ServiceOrderRepository
	partRepo     inventory.PartRepository
	movementRepo inventory.StockMovementRepository
	financeRepo  finance.TransactionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given
// repositories
func NewNoOpTransactionScope(
	orderRepo workshop.ServiceOrderRepository,
	partRepo inventory.PartRepository,
	movementRepo inventory.StockMovementRepository,
	financeRepo finance.TransactionRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:    orderRepo,
		partRepo:     partRepo,
		movementRepo: movementRepo,
		financeRepo:  financeRepo,
	}
}

// Execute runs the function without transaction boundaries
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the service order repository
func (s *NoOpTransactionScope) OrderRepo() workshop.ServiceOrderRepository {
	return s.orderRepo
}

// PartRepo returns the part repository
func (s *NoOpTransactionScope) PartRepo() inventory.PartRepository {
	return s.partRepo
}

// MovementRepo returns the stock movement repository
func (s *NoOpTransactionScope) MovementRepo() inventory.StockMovementRepository {
	return s.movementRepo
}

// FinanceRepo returns the financial transaction repository
func (s *NoOpTransactionScope) FinanceRepo() finance.TransactionRepository {
	return s.financeRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
